package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then every collector is registered", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "nextalbum")
				So(manager.subsystem, ShouldEqual, "browser")

				manager.rankingPasses.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.constLabels["env"], ShouldEqual, "test")
			})
		})

		Convey("When empty option values are given", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "nextalbum")
				So(manager.subsystem, ShouldEqual, "browser")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When a ranking pass is recorded", func() {
			before := testutil.ToFloat64(globalManager.rankingPasses)
			RecordRankingPass(12.5, 30, 4, 1)

			Convey("Then counters and gauges reflect it", func() {
				So(testutil.ToFloat64(globalManager.rankingPasses), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.rankedTracks), ShouldEqual, 30)
				So(testutil.ToFloat64(globalManager.rankedAlbums), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.excludedFlagged), ShouldEqual, 1)
			})

			Convey("And the album gauge can be adjusted after a removal", func() {
				UpdateRankedAlbums(3)
				So(testutil.ToFloat64(globalManager.rankedAlbums), ShouldEqual, 3)
			})
		})

		Convey("When cursor moves are recorded", func() {
			next := globalManager.cursorMoves.WithLabelValues("next")
			before := testutil.ToFloat64(next)
			RecordCursorMove("next")
			RecordCursorMove("next")

			So(testutil.ToFloat64(next), ShouldEqual, before+2)
		})

		Convey("When enrichment outcomes are recorded", func() {
			fetched := globalManager.enrichments.WithLabelValues("fetched")
			before := testutil.ToFloat64(fetched)
			RecordEnrichment("fetched")
			RecordEnrichmentLatency(3)

			So(testutil.ToFloat64(fetched), ShouldEqual, before+1)
		})

		Convey("When collaborator errors are recorded", func() {
			c := globalManager.collaboratorErrors.WithLabelValues("library", "unavailable")
			before := testutil.ToFloat64(c)
			RecordCollaboratorError("library", "unavailable")
			RecordCollaboratorLatency("library", "fetch_all_tracks", 8)

			So(testutil.ToFloat64(c), ShouldEqual, before+1)
		})

		Convey("When other recorders are called", func() {
			So(func() {
				RecordExclusion()
				RecordScannedFile("indexed")
				RecordHTTPRequest("browse_next", "POST", "200")
				RecordHTTPRequestDuration("browse_next", "POST", "200", 1.5)
				RecordHTTPError("browse_exclude", "conflict")
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent metric updates", t, func() {
		const goroutines = 10
		const perGoroutine = 100
		counter := globalManager.cursorMoves.WithLabelValues("prev")
		before := testutil.ToFloat64(counter)

		var wg sync.WaitGroup
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < perGoroutine; j++ {
					RecordCursorMove("prev")
				}
			}()
		}
		wg.Wait()

		So(testutil.ToFloat64(counter), ShouldEqual, before+goroutines*perGoroutine)
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("The exported registry is the one collectors are registered on", t, func() {
		RecordExclusion()
		families, err := GetRegistry().Gather()
		So(err, ShouldBeNil)

		found := false
		for _, f := range families {
			if f.GetName() == "nextalbum_browser_exclusions_total" {
				found = true
			}
		}
		So(found, ShouldBeTrue)
	})
}
