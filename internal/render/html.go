package render

import (
	"html"
	"strings"

	"github.com/russross/blackfriday/v2"
)

// HTML renders Markdown produced by a Markdown sink as a self-contained
// HTML5 page.
func HTML(title, markdown string) string {
	body := blackfriday.Run([]byte(markdown), blackfriday.WithExtensions(blackfriday.CommonExtensions))

	if title == "" {
		title = "Document"
	}

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>`)
	b.WriteString(html.EscapeString(title))
	b.WriteString(`</title>
  <style>
    body { font-family: "Times New Roman", serif; max-width: 800px; margin: 2rem auto; line-height: 1.6; padding: 0 1rem; }
    h2 { text-align: center; }
    table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
    td, th { border: 1px solid #000; padding: 6px; text-align: left; }
  </style>
</head>
<body>
`)
	b.Write(body)
	b.WriteString(`</body>
</html>
`)
	return b.String()
}
