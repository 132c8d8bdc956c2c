package guestbook

import "html/template"

var pageTemplate = template.Must(template.New("guestbook").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Guestbook</title>
</head>
<body>
  <h1>Guestbook</h1>
  <form method="post" action="/">
    <input type="text" name="message" placeholder="Leave a message">
    <button type="submit">Sign</button>
  </form>
  <ul>
{{- range .}}
    <li>{{.Text}} <small>{{.CreatedAt.Format "2006-01-02 15:04:05"}}</small></li>
{{- end}}
  </ul>
</body>
</html>
`))
