package devserver

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
)

const liveReloadScript = `<script>
(function() {
  var proto = window.location.protocol === "https:" ? "wss://" : "ws://";
  var socket = new WebSocket(proto + window.location.host + "` + reloadPath + `");
  socket.onmessage = function(event) {
    if (event.data === "` + ReloadMessage + `") { window.location.reload(); }
  };
})();
</script>
`

func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

// liveReload buffers HTML responses and inserts the reload script before the
// first closing body tag.
func liveReload(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isHTMLRequest(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		iw := newInterceptingWriter()
		next.ServeHTTP(iw, r)

		for key, values := range iw.header {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}
		body := iw.body.Bytes()
		if strings.HasPrefix(iw.header.Get("Content-Type"), "text/html") {
			body = InjectScript(body)
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(iw.status)
		_, _ = w.Write(body)
	})
}

// InjectScript returns html with the live-reload script inserted before
// </body>. Documents without a body tag are returned unchanged.
func InjectScript(html []byte) []byte {
	return bytes.Replace(html, []byte("</body>"), []byte(liveReloadScript+"</body>"), 1)
}

func isHTMLRequest(p string) bool {
	return strings.HasSuffix(p, ".html") || strings.HasSuffix(p, "/")
}

type interceptingWriter struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func newInterceptingWriter() *interceptingWriter {
	return &interceptingWriter{header: make(http.Header), status: http.StatusOK}
}

func (iw *interceptingWriter) Header() http.Header { return iw.header }

func (iw *interceptingWriter) Write(b []byte) (int, error) { return iw.body.Write(b) }

func (iw *interceptingWriter) WriteHeader(status int) { iw.status = status }
