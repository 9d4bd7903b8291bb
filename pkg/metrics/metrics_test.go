package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			metricPrefixOpt := WithMetricPrefix("test-prefix")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)
			customLabelsOpt := WithCustomLabels(map[string]string{"env": "test"})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(metricPrefixOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
				So(customLabelsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithMetricPrefix("test-prefix"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithCustomLabels(map[string]string{"env": "test", "version": "1.0"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording rank mutation metrics", func() {
			Convey("Then it should record mutations by operation", func() {
				So(func() {
					RecordRankMutation("add")
					RecordRankMutation("move")
					RecordRankMutation("remove")
					RecordRankMutation("compact")
				}, ShouldNotPanic)
			})

			Convey("And it should record mutation latency", func() {
				So(func() {
					RecordRankMutationLatency(1.5)
					RecordRankMutationLatency(12.0)
					RecordRankMutationLatency(80.0)
				}, ShouldNotPanic)
			})

			Convey("And it should record conflicts", func() {
				So(func() {
					RecordRankConflict()
					RecordRankConflict()
				}, ShouldNotPanic)
			})

			Convey("And it should record votes", func() {
				So(func() {
					RecordVoteCast()
					RecordVoteCast()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording snapshot metrics", func() {
			Convey("Then it should record snapshot creation and latency", func() {
				So(func() {
					RecordSnapshotCreated()
					RecordSnapshotBuildLatency(25.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording statistics metrics", func() {
			Convey("Then it should record recomputes, latency, and coalesced jobs", func() {
				So(func() {
					RecordStatsRecompute()
					RecordStatsRecomputeLatency(7.5)
					RecordStatsCoalesced()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording trending metrics", func() {
			Convey("Then it should record refreshes and feed size", func() {
				So(func() {
					RecordTrendingRefresh()
					RecordTrendingRefreshDuration(42.0)
					UpdateTrendingFeedSize(50)
					UpdateTrendingLastRefreshUnix(time.Now().Unix())
				}, ShouldNotPanic)
			})
		})

		Convey("When recording operational metrics", func() {
			Convey("Then it should update business scale gauges", func() {
				So(func() {
					UpdateTotalLists(100)
					UpdateTotalItems(5000)
				}, ShouldNotPanic)
			})

			Convey("And it should update queue gauges", func() {
				So(func() {
					UpdateQueueSize(10)
					UpdateQueueCapacity(1024)
					UpdateQueueUtilization(0.25)
				}, ShouldNotPanic)
			})

			Convey("And it should record queue throughput", func() {
				So(func() {
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueDropped()
				}, ShouldNotPanic)
			})

			Convey("And it should record worker metrics", func() {
				So(func() {
					UpdateWorkerActiveCount(4)
					RecordWorkerProcessingLatency(9.0)
					RecordWorkerError()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then it should record HTTP requests", func() {
				So(func() {
					RecordHTTPRequest("/healthz", "GET", "200")
					RecordHTTPRequest("/lists/{id}/members", "POST", "201")
					RecordHTTPRequest("/trending", "GET", "200")
				}, ShouldNotPanic)
			})

			Convey("And it should record HTTP request duration", func() {
				So(func() {
					RecordHTTPRequestDuration("/healthz", "GET", "200", 5.0)
					RecordHTTPRequestDuration("/lists/{id}/members", "POST", "201", 10.0)
					RecordHTTPRequestDuration("/trending", "GET", "200", 15.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording error metrics", func() {
			Convey("Then it should record errors by component", func() {
				So(func() {
					RecordErrorByComponent("repository", "conflict")
					RecordErrorByComponent("worker", "recompute_failed")
					RecordErrorByComponent("queue", "full")
				}, ShouldNotPanic)
			})

			Convey("And it should record repository query latency", func() {
				So(func() {
					RecordRepositoryQueryLatency(2.0)
					RecordRepositoryQueryLatency(5.0)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestMetricsEdgeCases(t *testing.T) {
	Convey("Given metrics edge cases", t, func() {
		Convey("When recording metrics with edge values", func() {
			Convey("And using zero values", func() {
				So(func() {
					UpdateQueueSize(0)
					UpdateTotalLists(0)
					UpdateTotalItems(0)
					RecordRankMutationLatency(0.0)
					RecordHTTPRequestDuration("/test", "GET", "200", 0.0)
				}, ShouldNotPanic)
			})

			Convey("And using negative values", func() {
				So(func() {
					UpdateQueueSize(-100)
					UpdateTotalLists(-10)
					UpdateTrendingFeedSize(-1)
				}, ShouldNotPanic)
			})

			Convey("And using very large values", func() {
				So(func() {
					UpdateQueueSize(1000000)
					UpdateTotalItems(10000000)
					RecordRankMutationLatency(10000.0)
					RecordHTTPRequestDuration("/test", "GET", "200", 30000.0)
				}, ShouldNotPanic)
			})

			Convey("And using empty strings", func() {
				So(func() {
					RecordRankMutation("")
					RecordHTTPRequest("", "", "200")
					RecordHTTPRequestDuration("", "", "200", 10.0)
					RecordErrorByComponent("", "")
				}, ShouldNotPanic)
			})

			Convey("And using special characters in labels", func() {
				So(func() {
					RecordHTTPRequest("/trending?limit=50", "GET", "200")
					RecordErrorByComponent("component-with-dash", "error_with_underscore")
					RecordErrorByComponent("error.with.dots", "conflict")
				}, ShouldNotPanic)
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics concurrency", t, func() {
		Convey("When recording metrics concurrently", func() {
			done := make(chan bool, 10)

			// Start multiple goroutines recording metrics
			for i := 0; i < 10; i++ {
				go func(id int) {
					for j := 0; j < 100; j++ {
						RecordRankMutation("add")
						UpdateQueueSize(1000 + j)
						RecordRankMutationLatency(float64(j))
						RecordHTTPRequest("/test", "GET", "200")
					}
					done <- true
				}(i)
			}

			// Wait for all goroutines to complete
			for i := 0; i < 10; i++ {
				<-done
			}

			Convey("Then it should handle concurrent access without panics", func() {
				So(true, ShouldBeTrue) // If we get here, no panics occurred
			})
		})
	})
}

func TestMetricsOptionsValidation(t *testing.T) {
	Convey("Given metrics options validation", t, func() {
		Convey("When creating with empty namespace", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithNamespace(""), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with nil histogram buckets", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithHistogramBuckets(nil), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with nil custom labels", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithCustomLabels(nil), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with zero refresh interval", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRefreshInterval(0), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}
