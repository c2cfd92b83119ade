package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vixenbot/vixen/cmd/bot/config"
	"github.com/vixenbot/vixen/cmd/bot/monitoring"
	"github.com/vixenbot/vixen/pkg/dataaccess"
	"github.com/vixenbot/vixen/pkg/logging"
	"github.com/vixenbot/vixen/pkg/request"
	"golang.org/x/time/rate"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for the health check.
	PathHealth = "/health"
)

// IApp is the surface of the application that handlers depend on.
type IApp interface {
	// Session returns the discord session.
	Session() *discordgo.Session

	// Log returns the application logger.
	Log() *slog.Logger

	// GuildDal returns the guild data access layer.
	GuildDal() dataaccess.GuildDal

	// TicketDal returns the ticket data access layer.
	TicketDal() dataaccess.TicketDal

	// Resets returns the pending reset confirmation tracker.
	Resets() *resetTracker
}

type App struct {
	// is the logger.
	*slog.Logger

	// r is the router for the monitoring server.
	r *mux.Router

	// svr is the monitoring server.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// gd is the guild data access layer.
	gd dataaccess.GuildDal

	// td is the ticket data access layer.
	td dataaccess.TicketDal

	// limitersMu guards limiters.
	limitersMu sync.Mutex

	// limiters holds the per-user interaction rate limiters.
	limiters map[string]*rate.Limiter

	// resets tracks pending reset confirmations.
	resets *resetTracker
}

// NewApp creates a new instance of App.
func NewApp(l *slog.Logger, r *mux.Router) *App {
	return &App{
		Logger:   l,
		r:        r,
		limiters: make(map[string]*rate.Limiter),
		resets:   newResetTracker(),
	}
}

func (a *App) Run() error {
	// The storage backend is connected during config parsing, so the DALs can
	// only be built now.
	a.gd = dataaccess.NewGuildDal(a.Logger)
	a.td = dataaccess.NewTicketDal(a.Logger)

	// Register bot.
	if err := a.RegisterBot(); err != nil {
		return fmt.Errorf("error registering bot: %w", err)
	}

	a.s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.Info(fmt.Sprintf("Logged in as %s#%s", r.User.Username, r.User.Discriminator))
	})

	if err := a.RegisterDiscordHandlers(); err != nil {
		return fmt.Errorf("error registering discord handlers: %w", err)
	}

	// Open websocket. Slash commands are registered per guild as the guild
	// create events arrive.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	a.Info("Bot is now running.")

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	// Register listener for shutdown signal.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	// Process shutdown signal.
	for sig := range c {
		a.Info("Received shutdown signal", slog.String("signal", sig.String()))
		if err := a.ShutdownHook(); err != nil {
			a.Error("Error shutting down application", slog.String(logging.KeyError, err.Error()))
		}
		os.Exit(0)
	}
	return nil
}

func (a *App) ShutdownHook() error {
	// Reset the total number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	// Unregister slash commands.
	if err := a.unregisterSlashCommands(); err != nil {
		return fmt.Errorf("error unregistering slash commands: %w", err)
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		return fmt.Errorf("error closing connection to Discord: %w", err)
	}
	return nil
}

func (a *App) RegisterBot() error {
	// Default the number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	dg, err := discordgo.New("Bot " + config.BotToken)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages

	a.s = dg
	return nil
}

func (a *App) RegisterDiscordHandlers() error {
	// Count every gateway event by type.
	a.s.AddHandler(func(_ *discordgo.Session, e *discordgo.Event) {
		if e.Type == "" {
			monitoring.TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
			return
		}
		monitoring.TotalDiscordEvents.WithLabelValues(e.Type).Inc()
	})

	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a))

	// Interaction create handler.
	a.s.AddHandler(interactionHandler(a,
		// Slash controllers
		map[string]commandController{
			setupCmd.Name:  setupCmdController,
			accessCmd.Name: accessCmdController,
			ticketCmd.Name: ticketCmdController,
		},
		// Button processors, keyed by custom ID prefix.
		map[string]commandProcessor{
			OpenTicketButtonID:   openTicketButtonHandler,
			ResetConfirmButtonID: resetConfirmHandler,
			ResetCancelButtonID:  resetCancelHandler,
		},
		// Modal processors, keyed by custom ID prefix.
		map[string]commandProcessor{
			TicketModalID: ticketModalHandler,
		}))
	return nil
}

func (a *App) registerGuildCommands(guildID string) error {
	for _, cmd := range []*discordgo.ApplicationCommand{setupCmd, accessCmd, ticketCmd} {
		if _, err := a.s.ApplicationCommandCreate(config.ApplicationId, guildID, cmd); err != nil {
			return fmt.Errorf("error creating %s command for guild %s: %w", cmd.Name, guildID, err)
		}
	}
	return nil
}

func (a *App) unregisterSlashCommands() error {
	for _, guild := range a.s.State.Guilds {
		cmds, err := a.s.ApplicationCommands(config.ApplicationId, guild.ID)
		if err != nil {
			return fmt.Errorf("error getting commands for guild %s: %w", guild.ID, err)
		}

		for _, cmd := range cmds {
			if err := a.s.ApplicationCommandDelete(config.ApplicationId, guild.ID, cmd.ID); err != nil {
				return fmt.Errorf("error deleting %s command for guild %s: %w", cmd.Name, guild.ID, err)
			}
		}
	}
	return nil
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:    ":" + config.MonitoringPort,
		Handler: a.r,
	}
}

func (a *App) setupRoutes() {
	// PathMetrics is the path for metrics.
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)

	// PathHealth is the path for the health check.
	a.r.HandleFunc(PathHealth, middlewareHttp(a.healthCheck(), a)).Methods(http.MethodGet)

	// NotFoundHandler is the handler for 404.
	a.r.NotFoundHandler = request.NotFoundHandler(a.Logger)

	// MethodNotAllowedHandler is the handler for 405.
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Logger)
}

func (a *App) runServer() {
	go func() {
		a.Info("Starting monitoring server", slog.String("addr", a.svr.Addr))
		if err := a.svr.ListenAndServe(); err != nil {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

// limiterFor returns the interaction rate limiter for the user, creating it
// on first use.
func (a *App) limiterFor(userID string) *rate.Limiter {
	a.limitersMu.Lock()
	defer a.limitersMu.Unlock()

	l, ok := a.limiters[userID]
	if !ok {
		l = rate.NewLimiter(rate.Every(interactionRateEvery), interactionRateBurst)
		a.limiters[userID] = l
	}
	return l
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) Log() *slog.Logger {
	return a.Logger
}

func (a *App) GuildDal() dataaccess.GuildDal {
	return a.gd
}

func (a *App) TicketDal() dataaccess.TicketDal {
	return a.td
}

func (a *App) Resets() *resetTracker {
	return a.resets
}
