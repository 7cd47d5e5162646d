package http

import (
	"html/template"

	"github.com/aretw0/lattice/pkg/gallery"
	"github.com/aretw0/lattice/pkg/runner"
)

type galleryPage struct {
	Scripts  []gallery.Script
	Selected string
	Stage    string
	Error    string
}

// Markup returns the mounted element. It was produced by the svg renderer,
// which escapes every text node.
func (p galleryPage) Markup() template.HTML { return template.HTML(p.Stage) }

func (galleryPage) Copied() string { return runner.FeedbackCopied }
func (galleryPage) Failed() string { return runner.FeedbackFailed }
func (galleryPage) FeedbackMS() int64 {
	return runner.DefaultFeedbackTTL.Milliseconds()
}

var pageTemplate = template.Must(template.New("gallery").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8" />
<title>Lattice Gallery</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
nav a { margin-right: 1rem; }
nav a.selected { font-weight: bold; }
#stage { margin-top: 1rem; border: 1px solid #ddd; display: inline-block; }
#feedback { margin-left: 1rem; color: #555; }
.error { color: #b00020; }
</style>
</head>
<body>
<nav>
{{- range .Scripts}}
<a href="/gallery?selected={{.Name}}"{{if eq .Name $.Selected}} class="selected"{{end}} title="{{.Description}}">{{.Title}}</a>
{{- end}}
</nav>
<div>
<button id="copy">Copy SVG</button><span id="feedback"></span>
</div>
{{- if .Error}}
<p class="error">{{.Error}}</p>
{{- end}}
<div id="stage">{{.Markup}}</div>
<script>
(function () {
  const stage = document.getElementById("stage");
  const feedback = document.getElementById("feedback");
  let timer;
  function show(text) {
    feedback.textContent = text;
    clearTimeout(timer);
    timer = setTimeout(() => { feedback.textContent = ""; }, {{.FeedbackMS}});
  }
  document.getElementById("copy").addEventListener("click", async () => {
    const svg = stage.querySelector("svg");
    if (!svg) { return; }
    try {
      await navigator.clipboard.writeText(svg.outerHTML);
      show({{.Copied}});
    } catch (err) {
      show({{.Failed}} + ": " + err);
    }
  });
  stage.querySelectorAll("[data-draggable]").forEach((el) => {
    let origin = null;
    el.addEventListener("pointerdown", (e) => {
      origin = { x: e.clientX, y: e.clientY };
      el.setPointerCapture(e.pointerId);
    });
    el.addEventListener("pointermove", (e) => {
      if (!origin) { return; }
      el.setAttribute("transform", "translate(" + (e.clientX - origin.x) + " " + (e.clientY - origin.y) + ")");
    });
    el.addEventListener("pointerup", () => { origin = null; });
  });
})();
</script>
</body>
</html>
`))
