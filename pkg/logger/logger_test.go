package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerNamed(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("test")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}
	namedLogger.Info(context.Background(), "test message")
}

func TestLoggerJSONOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWith(&buf, FormatJSON), ShouldBeNil)
		defer func() { _ = Init() }()

		Convey("When logging with a request id in the context", func() {
			ctx := WithRequestID(context.Background(), "req-42")
			Get().Named("api").With(String("component", "test")).Info(ctx, "hello", Int("n", 3))

			var line map[string]any
			So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)

			Convey("Then the line carries message, fields and request id", func() {
				So(line["msg"], ShouldEqual, "hello")
				So(line["n"], ShouldEqual, 3.0)
				So(line["component"], ShouldEqual, "test")
				So(line["logger"], ShouldEqual, "api")
				So(line["request_id"], ShouldEqual, "req-42")
				So(line["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level filters a message out", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			defer func() { _ = SetLevelString("info") }()
			Get().Info(context.Background(), "dropped")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestLoggerOptions(t *testing.T) {
	Convey("Given logger configuration inputs", t, func() {
		Convey("Unknown formats are rejected", func() {
			So(InitWith(&bytes.Buffer{}, "xml"), ShouldNotBeNil)
		})

		Convey("Nil writers are rejected", func() {
			So(InitWith(nil, FormatText), ShouldNotBeNil)
		})

		Convey("Level strings are parsed case-insensitively", func() {
			So(SetLevelString("DEBUG"), ShouldBeNil)
			So(SetLevelString("warning"), ShouldBeNil)
			So(SetLevelString(""), ShouldBeNil)
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})

		Convey("Request ids are absent from a bare context", func() {
			_, ok := RequestID(context.Background())
			So(ok, ShouldBeFalse)
		})
	})
}
