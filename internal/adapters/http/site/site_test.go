package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/gorilla/mux"
	"github.com/signalcraft/signalcraft/pkg/logger"
	"github.com/signalcraft/signalcraft/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func frontendFixture() fstest.MapFS {
	return fstest.MapFS{
		"index.html":         {Data: []byte("<html><title>SignalCraft</title></html>")},
		"dashboard.html":     {Data: []byte("<html><title>Dashboard</title></html>")},
		"login.html":         {Data: []byte("<html><title>Login</title></html>")},
		"secret.txt":         {Data: []byte("do not serve")},
		"static/js/app.js":   {Data: []byte("console.log('hi');")},
		"static/css/app.css": {Data: []byte("body{}")},
		"static/index.html":  {Data: []byte("<p>static index</p>")},
	}
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestSitePages(t *testing.T) {
	Convey("Given a site over a complete frontend", t, func() {
		r := mux.NewRouter()
		New(frontendFixture()).Register(context.Background(), r)

		Convey("Each page route serves its file as HTML", func() {
			for path, title := range map[string]string{"/": "SignalCraft", "/dashboard": "Dashboard", "/login": "Login"} {
				w := get(r, path)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(w.Body.String(), ShouldContainSubstring, "<title>"+title+"</title>")
			}
		})

		Convey("Page files are not reachable under their file names", func() {
			So(get(r, "/secret.txt").Code, ShouldEqual, http.StatusNotFound)
			So(get(r, "/dashboard.html").Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given a frontend without dashboard.html", t, func() {
		fsys := frontendFixture()
		delete(fsys, "dashboard.html")
		r := mux.NewRouter()
		New(fsys).Register(context.Background(), r)

		Convey("The dashboard route returns 404", func() {
			So(get(r, "/dashboard").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("The other pages still work", func() {
			So(get(r, "/login").Code, ShouldEqual, http.StatusOK)
		})
	})

	Convey("Given a custom not-found handler", t, func() {
		fsys := fstest.MapFS{}
		r := mux.NewRouter()
		New(fsys, WithNotFoundHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("custom"))
		}))).Register(context.Background(), r)

		Convey("Missing pages and assets use it", func() {
			w := get(r, "/")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(w.Body.String(), ShouldEqual, "custom")

			w = get(r, "/static/js/app.js")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(w.Body.String(), ShouldEqual, "custom")
		})
	})

	Convey("Given custom pages", t, func() {
		r := mux.NewRouter()
		New(frontendFixture(), WithPages([]Page{{Name: "home", Path: "/home", File: "index.html"}})).Register(context.Background(), r)

		Convey("Only the custom routes are served", func() {
			So(get(r, "/home").Code, ShouldEqual, http.StatusOK)
			So(get(r, "/login").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSiteStatic(t *testing.T) {
	Convey("Given a site with static assets", t, func() {
		r := mux.NewRouter()
		s := New(frontendFixture())
		s.Register(context.Background(), r)

		Convey("Existing assets are served", func() {
			w := get(r, "/static/js/app.js")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldEqual, "console.log('hi');")

			w = get(r, "/static/css/app.css")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/css")
		})

		Convey("A static index.html is served in place, not redirected", func() {
			w := get(r, "/static/index.html")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Location"), ShouldBeEmpty)
			So(w.Body.String(), ShouldEqual, "<p>static index</p>")
		})

		Convey("Misses count as not found and never as served", func() {
			served := counterValue("signalcraft_api_static_files_served_total")
			missed := counterValue("signalcraft_api_static_not_found_total")
			for _, target := range []string{"/static/nope.js", "/static/js/", "/static/css/missing/app.css"} {
				So(get(r, target).Code, ShouldEqual, http.StatusNotFound)
			}
			So(counterValue("signalcraft_api_static_files_served_total"), ShouldEqual, served)
			So(counterValue("signalcraft_api_static_not_found_total"), ShouldEqual, missed+3)

			So(get(r, "/static/js/app.js").Code, ShouldEqual, http.StatusOK)
			So(counterValue("signalcraft_api_static_files_served_total"), ShouldEqual, served+1)
		})

		Convey("Missing assets return 404", func() {
			So(get(r, "/static/js/missing.js").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Directories are not listed", func() {
			So(get(r, "/static/js/").Code, ShouldEqual, http.StatusNotFound)
			So(get(r, "/static/").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Traversal out of the static root is rejected", func() {
			h := http.StripPrefix(StaticPrefix, s.StaticHandler())
			for _, target := range []string{"/static/../secret.txt", "/static/js/../../index.html", "/static/%2e%2e/secret.txt"} {
				w := get(h, target)
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Body.String(), ShouldNotContainSubstring, "do not serve")
				So(w.Body.String(), ShouldNotContainSubstring, "SignalCraft")
			}
		})
	})
}

// counterValue sums a counter family from the service registry.
func counterValue(name string) float64 {
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		panic(err)
	}
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestStaticName(t *testing.T) {
	Convey("Given stripped static paths", t, func() {
		cases := map[string]struct {
			name string
			ok   bool
		}{
			"js/app.js":       {"js/app.js", true},
			"/js/app.js":      {"js/app.js", true},
			"js//app.js":      {"js/app.js", true},
			"../secret.txt":   {"", false},
			"js/../../x":      {"", false},
			"":                {"", false},
			"/":               {"", false},
			"./css/./app.css": {"css/app.css", true},
		}
		for in, want := range cases {
			name, ok := staticName(in)
			So(ok, ShouldEqual, want.ok)
			So(name, ShouldEqual, want.name)
		}
	})
}

func TestSiteConstruction(t *testing.T) {
	Convey("Given invalid construction inputs", t, func() {
		Convey("A nil frontend panics", func() {
			So(func() { New(nil) }, ShouldPanic)
		})

		Convey("Registering on a nil router panics", func() {
			So(func() { New(frontendFixture()).Register(context.Background(), nil) }, ShouldPanic)
		})

		Convey("A frontend without static/ still serves pages", func() {
			r := mux.NewRouter()
			New(fstest.MapFS{"index.html": {Data: []byte("<html></html>")}}).Register(context.Background(), r)
			So(get(r, "/").Code, ShouldEqual, http.StatusOK)
			So(get(r, "/static/app.js").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}
