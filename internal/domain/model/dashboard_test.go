package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/signalcraft/signalcraft/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestTrendAndSentiment(t *testing.T) {
	convey.Convey("Given trend and sentiment enums", t, func() {
		convey.Convey("Known values are valid", func() {
			convey.So(model.TrendUp.Valid(), convey.ShouldBeTrue)
			convey.So(model.TrendDown.Valid(), convey.ShouldBeTrue)
			convey.So(model.SentimentNeutral.Valid(), convey.ShouldBeTrue)
		})

		convey.Convey("Unknown values are invalid", func() {
			convey.So(model.Trend("sideways").Valid(), convey.ShouldBeFalse)
			convey.So(model.Sentiment("mixed").Valid(), convey.ShouldBeFalse)
		})
	})
}

func TestKPIEncoding(t *testing.T) {
	convey.Convey("Given KPI records", t, func() {
		convey.Convey("When the unit is empty", func() {
			b, err := json.Marshal(model.KPI{Title: "Orders", Value: 89, Change: 8.1, Trend: model.TrendUp})

			convey.Convey("Then unit is omitted and integral values stay integral", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(b), convey.ShouldEqual, `{"title":"Orders","value":89,"change":8.1,"trend":"up"}`)
			})
		})

		convey.Convey("When the unit is set", func() {
			b, err := json.Marshal(model.KPI{Title: "Total Revenue", Value: 24750, Unit: "$", Change: 12.5, Trend: model.TrendUp})

			convey.Convey("Then unit is present", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(b), convey.ShouldContainSubstring, `"unit":"$"`)
			})
		})
	})
}

func TestMetricsAck(t *testing.T) {
	convey.Convey("Given the metrics acknowledgment", t, func() {
		b, err := json.Marshal(model.NewMetricsAck())

		convey.Convey("Then data is an empty object", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(b), convey.ShouldEqual, `{"status":"ok","data":{}}`)
		})
	})
}

func TestDatasetFill(t *testing.T) {
	convey.Convey("Given a dataset without fill", t, func() {
		b, err := json.Marshal(model.Dataset{Label: "Orders", Data: []float64{1, 2}, BorderColor: "#000", BackgroundColor: "#fff"})

		convey.Convey("Then fill is omitted", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(b), convey.ShouldNotContainSubstring, "fill")
		})
	})
}
