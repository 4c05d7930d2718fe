package handlers

const adminDashboardTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.8rem; text-align: left; }
.error { color: #b00; }
</style>
</head>
<body>
<h1>{{ .Title }}</h1>
{{ if .Error }}
<p class="error">{{ .Error }}</p>
{{ else }}
<p>Signed in as {{ .UserEmail }}</p>
<ul>
  <li>Users: {{ .Overview.Users }}</li>
  <li>Quiz submissions: {{ .Overview.Submissions }}</li>
  <li>Chapter observations: {{ .Overview.Observations }}</li>
  <li>PDF deliveries: {{ .Overview.PdfFiles }}</li>
</ul>
<h2>Chapters</h2>
<table>
  <tr><th>Chapter</th><th>Submissions</th><th>Observation</th><th>Registered</th></tr>
  {{ range .Overview.Chapters }}
  <tr>
    <td>{{ .Chapter }}</td>
    <td>{{ .TotalSubmissions }}</td>
    <td>{{ if .HasObservation }}yes{{ else }}no{{ end }}</td>
    <td>{{ if .Registered }}yes{{ else }}no{{ end }}</td>
  </tr>
  {{ else }}
  <tr><td colspan="4">No chapters yet</td></tr>
  {{ end }}
</table>
<h2>Recent admin events</h2>
<table>
  <tr><th>When</th><th>Action</th><th>Actor</th><th>Target</th><th>Notes</th></tr>
  {{ range .Overview.RecentEvents }}
  <tr><td>{{ .CreatedAt }}</td><td>{{ .Action }}</td><td>{{ .Actor }}</td><td>{{ .Target }}</td><td>{{ .Notes }}</td></tr>
  {{ else }}
  <tr><td colspan="5">No events yet</td></tr>
  {{ end }}
</table>
{{ end }}
</body>
</html>
`
