package pages

import (
	"github.com/a-h/templ"

	"github.com/good-yellow-bee/modites/internal/roster"
	"github.com/good-yellow-bee/modites/internal/web/templates/components"
)

// ListData is the roster list view model.
type ListData struct {
	Query   string
	Loaded  bool
	Entries []roster.Entry
	Nonce   string
}

// listScript filters as the user types (200ms debounce), refreshes the list
// every minute and acknowledges row selection with the member's name.
// Detail links carry the window height for the map offset.
const listScript = `(function () {
  var input = document.getElementById("modite-filter");
  var timer;
  function refresh() {
    var q = input ? input.value : "";
    fetch("/partials/modites?q=" + encodeURIComponent(q), {credentials: "same-origin"})
      .then(function (res) { return res.ok ? res.text() : Promise.reject(res.status); })
      .then(function (html) {
        var list = document.getElementById("modites");
        if (list) { list.outerHTML = html; }
      })
      .catch(function () {});
  }
  if (input) {
    input.addEventListener("input", function () {
      clearTimeout(timer);
      timer = setTimeout(refresh, 200);
    });
    input.form.addEventListener("submit", function (e) { e.preventDefault(); refresh(); });
  }
  setInterval(refresh, 60000);
  document.addEventListener("click", function (e) {
    var link = e.target.closest("a.name");
    if (link) { link.href = link.pathname + "?h=" + window.innerHeight; return; }
    var row = e.target.closest(".modite-row[data-modite-name]");
    if (row) { alert(row.getAttribute("data-modite-name")); }
  });
  if (document.getElementById("modites").getAttribute("data-loaded") === "false") {
    setTimeout(refresh, 1000);
  }
})();`

// List renders the roster page.
func List(d ListData) templ.Component {
	body := templ.Join(
		markup(`<main class="roster"><header><h1>Modites</h1>`),
		components.SearchBar(d.Query),
		markup(`</header>`),
		ListFragment(d),
		markup(`</main>`),
		components.Script(d.Nonce, listScript),
	)
	return components.Layout("Modites", body)
}

// ListFragment renders just the list, for periodic refreshes and filtering.
func ListFragment(d ListData) templ.Component {
	return components.RosterList(d.Loaded, d.Entries)
}
