// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import "html/template"

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: Georgia, serif; max-width: 960px; margin: 2rem auto; color: #26331f; }
  h1 { border-bottom: 3px solid #4a6b3a; padding-bottom: 0.3rem; }
  .meta { color: #5c6b54; font-size: 0.9rem; }
  .metrics { display: flex; gap: 2rem; margin: 1.5rem 0; }
  .metric { background: #eef3ea; border-radius: 8px; padding: 1rem 1.5rem; text-align: center; }
  .metric .value { font-size: 1.8rem; font-weight: bold; color: #4a6b3a; }
  .chart { margin: 1rem 0; }
  .row { display: flex; align-items: center; margin: 2px 0; }
  .row .label { width: 220px; font-size: 0.85rem; text-align: right; padding-right: 8px; }
  .row .bar { background: #7a9a68; height: 16px; border-radius: 2px; }
  .row .count { padding-left: 6px; font-size: 0.8rem; color: #5c6b54; }
  table { border-collapse: collapse; width: 100%; font-size: 0.9rem; }
  th, td { border: 1px solid #c9d4c2; padding: 6px 10px; text-align: left; }
  th { background: #4a6b3a; color: #fff; }
  tr:nth-child(even) { background: #f4f7f1; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Generated {{.GeneratedAt}}{{if .ExpandedSeasons}} &middot; Seasons: {{.ExpandedSeasons}}{{end}}</p>
{{if .ImageData}}<img src="{{.ImageData}}" alt="map" style="max-width: 100%; border-radius: 8px;">
{{end}}

<div class="metrics">
  <div class="metric"><div class="value">{{.TotalObservations}}</div>Observations</div>
  <div class="metric"><div class="value">{{.UniqueSpecies}}</div>Species</div>
  <div class="metric"><div class="value">{{.UniqueGenera}}</div>Genera</div>
</div>

{{if .SpeciesBars}}
<h2>Observations by Species</h2>
<div class="chart">
{{range .SpeciesBars}}  <div class="row"><span class="label"><em>{{.Name}}</em></span><span class="bar" style="width: {{printf "%.1f" .Percent}}%"></span><span class="count">{{.Count}}</span></div>
{{end}}</div>
{{end}}

{{if .GenusBars}}
<h2>Observations by Genus</h2>
<div class="chart">
{{range .GenusBars}}  <div class="row"><span class="label"><em>{{.Name}}</em></span><span class="bar" style="width: {{printf "%.1f" .Percent}}%"></span><span class="count">{{.Count}}</span></div>
{{end}}</div>
{{end}}

{{if .Table}}
<h2>Species Detail</h2>
<table>
<tr><th>Scientific Name</th><th>Common Name</th><th>Genus</th><th>Season</th><th>Rating</th><th>Edible Parts</th><th>Page</th><th>Observations</th></tr>
{{range .Table}}<tr><td><em>{{.ScientificName}}</em></td><td>{{.CommonName}}</td><td>{{.Genus}}</td><td>{{.Season}}</td><td>{{.SayerRating}}</td><td>{{.EdibleParts}}</td><td>{{.PageNumber}}</td><td>{{.Count}}</td></tr>
{{end}}</table>
{{end}}

</body>
</html>
`))
