package monitoring

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vixenbot/vixen/cmd/bot/config"
)

var (
	// TotalDiscordEvents is the total number of events.
	TotalDiscordEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_total_discord_events", config.AppName),
			Help: "Total number of events",
		},
		[]string{"event"},
	)

	// HttpTotalRequests is the total number of http requests.
	HttpTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_http_total_requests", config.AppName),
			Help: "Total number of http requests",
		},
		[]string{"path", "method", "status_code"},
	)

	// HttpRequestDuration is the duration of the http request.
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: fmt.Sprintf("%s_http_request_duration", config.AppName),
			Help: "Duration of the http request",
		},
		[]string{"path", "method", "status_code"},
	)

	// TotalDiscordGuilds is the number of guilds the bot is currently in.
	TotalDiscordGuilds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_total_discord_guilds", config.AppName),
			Help: "Total number of discord guilds",
		},
	)

	// DiscordCommandDuration is the duration of discord interaction handling.
	DiscordCommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: fmt.Sprintf("%s_discord_command_duration", config.AppName),
			Help: "Duration of the discord command",
		},
		[]string{"command"},
	)

	// TotalTicketsOpened is the total number of tickets opened.
	TotalTicketsOpened = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_total_tickets_opened", config.AppName),
			Help: "Total number of tickets opened",
		},
	)

	// TotalTicketsClosed is the total number of tickets closed.
	TotalTicketsClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_total_tickets_closed", config.AppName),
			Help: "Total number of tickets closed",
		},
	)

	// TotalQuotaRejections is the number of ticket opens rejected by the
	// monthly quota.
	TotalQuotaRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_total_quota_rejections", config.AppName),
			Help: "Total number of ticket opens rejected by the monthly quota",
		},
	)
)
