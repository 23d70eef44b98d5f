package server

import (
	"html/template"
	"strings"

	"github.com/cloudydeno/module-visualizer/pkg/registry"
	"github.com/cloudydeno/module-visualizer/pkg/shields"
	"github.com/cloudydeno/module-visualizer/pkg/source"
)

type graphPage struct {
	Slug         string
	ModuleURL    string
	ExportPrefix string
}

type graphBody struct {
	SVG     template.HTML
	DOT     string
	Error   string
	Process *source.ProcessError
}

type setupPage struct {
	Slug      string
	ModuleURL string
	Badges    []shields.Endpoint
}

type registryKey struct {
	Registries []registry.ColorEntry
	Extra      []registry.ColorEntry
}

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"join":  strings.Join,
	"upper": strings.ToUpper,
}).Parse(pageTemplates))

const pageTemplates = `
{{define "head"}}<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.}}</title>
<style type="text/css">
body { font-family: "Archivo Narrow", Arial, sans-serif; margin: 0 1em; }
#graph { max-width: 100%; height: auto; }
#graph-error { background-color: #fdd; padding: 0.5em 1em; }
.key div { display: inline-block; padding: 0.3em 0.6em; margin: 0.2em; }
</style>
</head>
<body>
{{end}}

{{define "foot"}}
</body>
</html>
{{end}}

{{define "index"}}{{template "head" "Deno module visualizer"}}
<h1>Deno module visualizer</h1>
<form method="get" action="/dependencies-of/">
<input type="url" name="url" placeholder="https://deno.land/x/..." size="60" required>
<label><input type="checkbox" name="std" value="isolate"> separate std modules</label>
<label><input type="checkbox" name="files" value="isolate"> separate local files</label>
<select name="rankdir">
<option value="TB">top to bottom</option>
<option value="LR">left to right</option>
<option value="interactive">interactive</option>
</select>
<button type="submit">Graph</button>
</form>
<p><a href="/registry-key">Registry color key</a></p>
{{template "foot"}}{{end}}

{{define "registry-key"}}{{template "head" "Registry key"}}
<h1>Registry key</h1>
<h2>Registries</h2>
<div class="key">
{{range .Registries}}  <div style="background-color: {{.Color}}">{{.Key}}</div>
{{end}}</div>
<h2>Other</h2>
<div class="key">
{{range .Extra}}  <div style="background-color: {{.Color}}">{{.Key}}</div>
{{end}}</div>
{{template "foot"}}{{end}}

{{define "setup"}}{{template "head" (print "Badges for " .Slug)}}
<h1>Badges for <code>{{.Slug}}</code></h1>
<p>Module: <a href="{{.ModuleURL}}">{{.ModuleURL}}</a> | <a href="/dependencies-of/{{.Slug}}">graph</a></p>
{{range .Badges}}<h2>{{.ID}}</h2>
<p><img src="{{.Image}}" alt="{{.ID}} badge"></p>
<p>Endpoint: <a href="{{.URL}}"><code>{{.URL}}</code></a></p>
<pre>{{.Markdown}}</pre>
{{end}}{{template "foot"}}{{end}}

{{define "graph-head"}}{{template "head" (print "Dependencies of " .Slug)}}
<h1>Dependencies of <code>{{.Slug}}</code></h1>
<p>Module: <a href="{{.ModuleURL}}">{{.ModuleURL}}</a></p>
<p>Export:
<a href="{{.ExportPrefix}}svg">SVG</a>
<a href="{{.ExportPrefix}}png">PNG</a>
<a href="{{.ExportPrefix}}dot">DOT</a>
<a href="{{.ExportPrefix}}json">JSON</a>
| <a href="/registry-key">key</a></p>
<div id="graph-waiting">Computing graph...</div>
{{end}}

{{define "graph-body"}}<style type="text/css">#graph-waiting { display: none; }</style>
{{if .Process}}<div id="graph-error">
<h2>{{upper .Process.Label}} FAILED</h2>
<p>Process: <code>{{join .Process.CmdLine " "}}</code></p>
<p>Exit code: <code>{{.Process.ExitCode}}</code></p>
<p>{{if .Process.FoundError}}<code>{{.Process.FoundError}}</code>{{else}}<em>(no output received)</em>{{end}}</p>
<h5>Sorry about that. Perhaps double check that the given URL is functional, or try another module URL.</h5>
</div>
{{else if .Error}}<div id="graph-error">{{.Error}}</div>
{{else if .DOT}}<div id="graph"></div>
<pre id="graphviz_data" hidden>{{.DOT}}</pre>
<script src="https://unpkg.com/@viz-js/viz@3.2.4/lib/viz-standalone.js"></script>
<script>
Viz.instance().then(function(viz) {
  var dot = document.getElementById("graphviz_data").textContent;
  document.getElementById("graph").appendChild(viz.renderSVGElement(dot));
});
</script>
{{else}}{{.SVG}}
{{end}}{{template "foot"}}{{end}}
`
