package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/asellingson28/ytmail/app/channel"
	"github.com/asellingson28/ytmail/app/feed"
	"github.com/asellingson28/ytmail/app/metrics"
	"github.com/asellingson28/ytmail/app/tasks"
)

const feedItemLimit = 50

func NewHandler(channels []channel.Channel, seenRepo SeenReader,
	scheduler tasks.SchedulerInterface, gatherer prometheus.Gatherer, version string) *Handler {
	return &Handler{
		channels:  channels,
		seenRepo:  seenRepo,
		generator: feed.NewGenerator(version),
		scheduler: scheduler,
		gatherer:  gatherer,
		version:   version,
	}
}

// GetFeed serves the items recorded for a configured channel as RSS.
func (h *Handler) GetFeed(c *gin.Context) {
	id := c.Param("id")

	ch, ok := h.findChannel(id)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	records, err := h.seenRepo.ListByChannel(c.Request.Context(), ch.ID, feedItemLimit)
	if err != nil {
		slog.Error("Database error", "operation", "list_seen_items", "channel", ch.ID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	selfLink := fmt.Sprintf("http://%s/feeds/%s", c.Request.Host, ch.ID)
	rss, err := h.generator.Run(ch, records, selfLink)
	if err != nil {
		slog.Error("RSS generation error", "channel", ch.ID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(records)))
	c.Header("X-Feed-Name", ch.Name)

	c.String(http.StatusOK, rss)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"channels":  len(h.channels),
	}

	if count, err := h.seenRepo.Count(c.Request.Context()); err == nil {
		health["seen_items"] = count
	} else {
		slog.Error("Database error", "operation", "count_seen_items", "error", err)
	}

	if report := h.scheduler.LastReport(); report != nil {
		health["last_sweep"] = report.FinishedAt.In(time.Local).Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"channels":   h.channelList(c),
		"last_sweep": h.scheduler.LastReport(),
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIListChannels(c *gin.Context) {
	channels := h.channelList(c)

	c.JSON(http.StatusOK, map[string]interface{}{
		"channels": channels,
		"total":    len(channels),
	})
}

// APISweep runs a sweep now. It waits for any sweep already in progress.
func (h *Handler) APISweep(c *gin.Context) {
	report := h.scheduler.Sweep(c.Request.Context())

	slog.Info("Manual sweep finished", "new", report.Outcomes[tasks.OutcomeNew], "failures", len(report.Failures))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"report":  report,
	})
}

func (h *Handler) GetMetrics() gin.HandlerFunc {
	return gin.WrapH(metrics.Handler(h.gatherer))
}

func (h *Handler) findChannel(id string) (channel.Channel, bool) {
	for _, ch := range h.channels {
		if ch.ID == id {
			return ch, true
		}
	}
	return channel.Channel{}, false
}

func (h *Handler) channelList(c *gin.Context) []map[string]interface{} {
	counts, err := h.seenRepo.CountByChannel(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "count_seen_items_by_channel", "error", err)
	}

	channels := make([]map[string]interface{}, 0, len(h.channels))
	for _, ch := range h.channels {
		info := map[string]interface{}{
			"id":      ch.ID,
			"name":    ch.Name,
			"filters": len(ch.Filters),
		}
		if counts != nil {
			info["seen_items"] = counts[ch.ID]
		}
		channels = append(channels, info)
	}

	return channels
}
