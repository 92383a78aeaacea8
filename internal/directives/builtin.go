package directives

// BuiltInDefinitions returns the directives every site understands.
func BuiltInDefinitions() []Definition {
	return []Definition{
		ctaDefinition(),
		templateDefinition(),
		videoDefinition(),
	}
}

func ctaDefinition() Definition {
	return Definition{
		Kind:     "template",
		Name:     "cta",
		Override: "%s.html",
		Fragment: `
<section class="cta-section">
  <div class="cta-container">
    <div class="cta-wrapper">
      <h2 class="cta-title">Ready to Build Something Amazing?</h2>
      <p class="cta-description">
        Let's transform your ideas into reality with cutting-edge technology and proven expertise.
      </p>
      <a href="/contact.html" class="cta-button">
        Start Your Project
        <svg width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <line x1="5" y1="12" x2="19" y2="12"></line>
          <polyline points="12 5 19 12 12 19"></polyline>
        </svg>
      </a>
    </div>
  </div>
</section>
`,
	}
}

// templateDefinition includes any other named partial from the template set.
func templateDefinition() Definition {
	return Definition{
		Kind:     "template",
		Override: "%s.html",
	}
}

func videoDefinition() Definition {
	return Definition{
		Kind:     "video",
		Override: "video.html",
		Fragment: `<div class="video-wrapper" style="position: relative; padding-bottom: 56.25%; height: 0; overflow: hidden; max-width: 100%;">
  <iframe
    src="https://www.youtube.com/embed/{{ .ID }}"
    title="YouTube video player"
    frameborder="0"
    allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture; web-share"
    allowfullscreen
    style="position: absolute; top: 0; left: 0; width: 100%; height: 100%;">
  </iframe>
</div>`,
	}
}
