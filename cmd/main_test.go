package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"testing/fstest"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/signalcraft/signalcraft/internal/config"
	"github.com/signalcraft/signalcraft/pkg/logger"
	"github.com/signalcraft/signalcraft/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestLoadConfig(t *testing.T) {
	convey.Convey("Given the root command", t, func() {
		_ = os.Unsetenv("SIGNALCRAFT_CONFIG")
		_ = os.Unsetenv("SIGNALCRAFT_PORT")

		convey.Convey("When no flags are given", func() {
			cmd := newRootCmd()
			convey.So(cmd.ParseFlags(nil), convey.ShouldBeNil)
			cfg, err := loadConfig(cmd, flags{})

			convey.Convey("Then the defaults listen on 0.0.0.0:8000", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr(), convey.ShouldEqual, "0.0.0.0:8000")
				convey.So(cfg.FrontendDir, convey.ShouldEqual, "frontend")
			})
		})

		convey.Convey("When flags are set they override env", func() {
			_ = os.Setenv("SIGNALCRAFT_PORT", "9100")
			defer func() { _ = os.Unsetenv("SIGNALCRAFT_PORT") }()

			var f flags
			cmd := newRootCmd()
			convey.So(cmd.ParseFlags([]string{"--host", "127.0.0.1", "--frontend-dir", "/srv/www"}), convey.ShouldBeNil)
			f.host, _ = cmd.Flags().GetString("host")
			f.frontendDir, _ = cmd.Flags().GetString("frontend-dir")
			cfg, err := loadConfig(cmd, f)

			convey.Convey("Then flags win and unset flags leave env values alone", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Host, convey.ShouldEqual, "127.0.0.1")
				convey.So(cfg.Port, convey.ShouldEqual, 9100)
				convey.So(cfg.FrontendDir, convey.ShouldEqual, "/srv/www")
			})
		})

		convey.Convey("When a flag makes the config invalid", func() {
			cmd := newRootCmd()
			convey.So(cmd.ParseFlags([]string{"--port", "70000"}), convey.ShouldBeNil)
			_, err := loadConfig(cmd, flags{port: 70000})

			convey.Convey("Then loading fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When --config points at a missing file", func() {
			cmd := newRootCmd()
			convey.So(cmd.ParseFlags([]string{"--config", "/does/not/exist.yaml"}), convey.ShouldBeNil)
			_, err := loadConfig(cmd, flags{configPath: "/does/not/exist.yaml"})

			convey.Convey("Then loading fails", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When extra arguments are passed", func() {
			cmd := newRootCmd()
			cmd.SetArgs([]string{"unexpected"})

			convey.Convey("Then the command refuses them", func() {
				convey.So(cmd.Execute(), convey.ShouldNotBeNil)
			})
		})
	})
}

func TestNewHandler(t *testing.T) {
	convey.Convey("Given a loaded config and an in-memory frontend", t, func() {
		cfg := config.New()
		frontend := fstest.MapFS{
			"index.html":     {Data: []byte("<html>index</html>")},
			"dashboard.html": {Data: []byte("<html>dashboard</html>")},
			"login.html":     {Data: []byte("<html>login</html>")},
		}
		h, err := newHandler(context.Background(), cfg, frontend, logger.Get())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the page and API routes are served", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "index")

			w = httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/alerts", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			var body map[string][]map[string]any
			convey.So(json.Unmarshal(w.Body.Bytes(), &body), convey.ShouldBeNil)
			convey.So(len(body["alerts"]), convey.ShouldEqual, 2)
		})
	})
}

func TestBundledFrontend(t *testing.T) {
	convey.Convey("Given the handler serving the bundled frontend directory", t, func() {
		h, err := newHandler(context.Background(), config.New(), os.DirFS("../frontend"), logger.Get())
		convey.So(err, convey.ShouldBeNil)

		get := func(target string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, http.NoBody))
			return w
		}

		convey.Convey("Then the dashboard page draws the series on canvases with Chart.js", func() {
			w := get("/dashboard")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `<canvas id="revenue-chart">`)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `<canvas id="orders-chart">`)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "chart.umd.min.js")
		})

		convey.Convey("Then the dashboard script builds line charts from the dataset styling", func() {
			w := get("/static/js/dashboard.js")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			body := w.Body.String()
			convey.So(body, convey.ShouldContainSubstring, "type: 'line'")
			convey.So(body, convey.ShouldContainSubstring, "borderColor: ds.borderColor")
			convey.So(body, convey.ShouldContainSubstring, "backgroundColor: ds.backgroundColor")
			convey.So(body, convey.ShouldContainSubstring, "fill: !!ds.fill")
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a config on a free local port", t, func() {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		convey.So(err, convey.ShouldBeNil)
		port := l.Addr().(*net.TCPAddr).Port
		convey.So(l.Close(), convey.ShouldBeNil)

		cfg := config.New()
		cfg.Host = "127.0.0.1"
		cfg.Port = port
		cfg.FrontendDir = t.TempDir()
		cfg.ShutdownTimeout = time.Second

		convey.Convey("When the server runs until its context ends", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- run(ctx, cfg) }()

			addr := "http://" + net.JoinHostPort(cfg.Host, strconv.Itoa(port)) + "/healthz"
			var status int
			for i := 0; i < 50; i++ {
				resp, err := http.Get(addr) //nolint:noctx // test probe
				if err == nil {
					status = resp.StatusCode
					_ = resp.Body.Close()
					break
				}
				time.Sleep(20 * time.Millisecond)
			}
			cancel()

			convey.Convey("Then it answers requests and stops cleanly", func() {
				convey.So(status, convey.ShouldEqual, http.StatusOK)
				convey.So(<-done, convey.ShouldBeNil)
			})
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a single refresh does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loop exits when its context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx, time.Millisecond)
				close(done)
			}()
			time.Sleep(5 * time.Millisecond)
			cancel()
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("metrics updater did not stop")
			}
		})
	})
}

func TestMetricsOptions(t *testing.T) {
	convey.Convey("Given metrics settings in the config", t, func() {
		prevRegistry := metrics.GetRegistry()
		defer metrics.Configure()

		cfg := config.New()
		cfg.MetricsNamespace = "acme"
		cfg.MetricsSubsystem = "web"
		cfg.MetricsRefreshInterval = 7 * time.Second
		cfg.MetricsLabels = map[string]string{"env": "test"}
		m := metrics.Configure(metricsOptions(cfg)...)

		convey.Convey("Then the process-wide manager is built from them", func() {
			convey.So(metrics.Default(), convey.ShouldEqual, m)
			convey.So(m.RefreshInterval(), convey.ShouldEqual, 7*time.Second)
			convey.So(m.Enabled(), convey.ShouldBeTrue)
			convey.So(metrics.GetRegistry(), convey.ShouldNotEqual, prevRegistry)

			metrics.RecordPageServed("index")
			count, err := testutil.GatherAndCount(metrics.GetRegistry(), "acme_web_pages_served_total")
			convey.So(err, convey.ShouldBeNil)
			convey.So(count, convey.ShouldEqual, 1)
		})

		convey.Convey("Then /metrics served by a handler built afterwards uses the new names", func() {
			frontend := fstest.MapFS{
				"index.html":     {Data: []byte("<html>index</html>")},
				"dashboard.html": {Data: []byte("<html>dashboard</html>")},
				"login.html":     {Data: []byte("<html>login</html>")},
			}
			h, err := newHandler(context.Background(), cfg, frontend, logger.Get())
			convey.So(err, convey.ShouldBeNil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/news", http.NoBody))
			w = httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "acme_web_http_requests_total")
		})
	})
}

func TestProbeCommand(t *testing.T) {
	convey.Convey("Given the probe subcommand", t, func() {
		cfg := config.New()
		h, err := newHandler(context.Background(), cfg, fstest.MapFS{"index.html": {Data: []byte("<html></html>")}}, logger.Get())
		convey.So(err, convey.ShouldBeNil)
		srv := httptest.NewServer(h)
		defer srv.Close()

		convey.Convey("When it runs against a live handler", func() {
			cmd := newRootCmd()
			cmd.SetArgs([]string{"probe", "--url", srv.URL})

			convey.Convey("Then every check passes", func() {
				convey.So(cmd.Execute(), convey.ShouldBeNil)
			})
		})
	})
}
