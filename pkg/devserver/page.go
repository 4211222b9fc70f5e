package devserver

import (
	"html/template"
	"net/http"

	"github.com/weft-ui/weft/pkg/element"
)

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Weft elements</title></head>
<body>
<h1>Registered elements</h1>
{{if .}}
<ul>
{{range .}}<li><a href="/elements/{{.}}">{{.}}</a></li>
{{end}}</ul>
{{else}}
<p>No elements registered.</p>
{{end}}
</body>
</html>
`))

var elementTmpl = template.Must(template.New("element").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Name}}</title></head>
<body>
<h1>&lt;{{.Name}}&gt;</h1>
<div id="weft-root"></div>
{{if .Observed}}
<h2>Attributes</h2>
<form id="weft-attrs" onsubmit="return false">
{{range .Observed}}
<label>{{.}} <input name="{{.}}" data-weft-attr="{{.}}"></label><br>
{{end}}
</form>
{{end}}
<pre id="weft-errors"></pre>
<script>
(function() {
  var proto = location.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(proto + "//" + location.host + "/ws/{{.Name}}");
  var old = {};
  ws.onmessage = function(ev) {
    var frame = JSON.parse(ev.data);
    if (frame.type === "render") {
      document.getElementById("weft-root").innerHTML = frame.html;
    } else if (frame.type === "error") {
      document.getElementById("weft-errors").textContent = frame.error;
    }
  };
  document.querySelectorAll("[data-weft-attr]").forEach(function(input) {
    input.addEventListener("change", function() {
      var name = input.getAttribute("data-weft-attr");
      ws.send(JSON.stringify({type: "attr", name: name, old: old[name] || "", value: input.value}));
      old[name] = input.value;
    });
  });
})();
</script>
</body>
</html>
`))

// renderIndexPage writes the element index.
func (s *Server) renderIndexPage(w http.ResponseWriter, names []string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, names); err != nil {
		s.logger.Printf("index page: %v", err)
	}
}

// renderElementPage writes the host page for one element.
func (s *Server) renderElementPage(w http.ResponseWriter, def *element.Definition) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		Name     string
		Observed []string
	}{
		Name:     def.Name(),
		Observed: def.Observed(),
	}
	if err := elementTmpl.Execute(w, data); err != nil {
		s.logger.Printf("element page: %v", err)
	}
}
