package ui

import (
	"net/http"
)

// fixtureHandler serves a single HTML page at every path.
func fixtureHandler(html string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	})
}

// navPage has a small but realistic tab order: links, a labelled input, and
// buttons with different naming mechanisms.
const navPage = `<!DOCTYPE html>
<html lang="en">
<head><title>Fixture: Navigation</title></head>
<body>
  <nav>
    <a href="/">Home</a>
    <a href="/docs">Documentation</a>
  </nav>
  <main>
    <span id="search-label">Search the site</span>
    <input type="search" aria-labelledby="search-label">
    <button aria-label="Submit search">Go</button>
    <button title="Reset the form"></button>
  </main>
</body>
</html>`

// unnamedPage contains controls without any accessible name.
const unnamedPage = `<!DOCTYPE html>
<html lang="en">
<head><title>Fixture: Unnamed Controls</title></head>
<body>
  <a href="/visible">Visible Link</a>
  <input type="text" id="mystery">
  <button></button>
</body>
</html>`

// dialogPage renders its confirm button only after a short delay, so focus
// assertions have to wait for the element to attach.
const dialogPage = `<!DOCTYPE html>
<html lang="en">
<head><title>Fixture: Late Dialog</title></head>
<body>
  <a href="/">Skip</a>
  <div id="slot"></div>
  <script>
    setTimeout(function () {
      var btn = document.createElement('button');
      btn.textContent = 'Confirm order';
      document.getElementById('slot').appendChild(btn);
    }, 300);
  </script>
</body>
</html>`
