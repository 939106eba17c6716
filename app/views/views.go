// Package views embeds the mock storefront's HTML pages.
package views

import (
	"embed"
	"io/fs"
)

//go:embed html/*.html
var files embed.FS

// Pages maps a UI route to its embedded file.
var Pages = map[string]string{
	"/":         "index.html",
	"/login":    "login.html",
	"/products": "products.html",
	"/users":    "users.html",
}

// Page returns the bytes of an embedded page such as "login.html".
func Page(name string) ([]byte, error) {
	return fs.ReadFile(files, "html/"+name)
}
