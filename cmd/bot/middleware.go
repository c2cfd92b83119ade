package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"
	"github.com/vixenbot/vixen/cmd/bot/monitoring"
	"github.com/vixenbot/vixen/pkg/logging"
	"github.com/vixenbot/vixen/pkg/messages"
	"github.com/vixenbot/vixen/pkg/request"
)

const (
	// interactionRateEvery is the sustained interval between interactions a
	// single user is allowed.
	interactionRateEvery = 2 * time.Second

	// interactionRateBurst is how many interactions a user may burst before
	// the limiter kicks in.
	interactionRateBurst = 5
)

// commandController resolves an interaction to the processor that handles it.
// It is where permission checks and sub command routing happen.
type commandController func(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error)

// commandProcessor handles a single interaction to completion.
type commandProcessor func(a IApp, i *discordgo.InteractionCreate) error

type Controller func(w http.ResponseWriter, r *http.Request)

func middlewareHttp(handler Controller, a IApp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprintf("%v", rec)),
					slog.String("stack", string(debug.Stack())),
				)
				cw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(cw).Encode(request.NewMessage(request.ErrInternalServer.Error())); err != nil {
					a.Log().Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				a.Log().Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path // If the route does not define a path, use the URL path.
			}
		} else {
			path = r.URL.Path // If the route is nil, use the URL path.
		}

		defer func() {
			// Run after the request has been handled, as the status code is
			// not available until then.
			monitoring.HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			monitoring.HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// interactionHandler dispatches interactions to the registered controllers.
// Slash commands are routed by command name; buttons and modals by the prefix
// of their custom ID (the part before any ':').
func interactionHandler(a *App,
	slashControllers map[string]commandController,
	buttonProcessors map[string]commandProcessor,
	modalProcessors map[string]commandProcessor,
) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
			// The bot only operates in guilds.
			return
		}

		if !a.limiterFor(i.Member.User.ID).Allow() {
			if err := respondEphemeral(a, i, messages.ErrRateLimited); err != nil {
				a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
			return
		}

		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			name := i.ApplicationCommandData().Name
			controller, ok := slashControllers[name]
			if !ok {
				a.Log().Error("No controller found for command", slog.String("command", name))
				respondErrorLogged(a, i)
				return
			}
			runInteraction(a, i, name, func() error {
				processor, err := controller(a, i)
				if err != nil {
					return fmt.Errorf("error getting processor for command %s: %w", name, err)
				} else if processor == nil {
					// The controller answered the interaction itself, usually
					// with a permission refusal.
					return nil
				}
				return processor(a, i)
			})
		case discordgo.InteractionMessageComponent:
			key, _ := splitCustomID(i.MessageComponentData().CustomID)
			processor, ok := buttonProcessors[key]
			if !ok {
				a.Log().Error("No processor found for component", slog.String("component", key))
				respondErrorLogged(a, i)
				return
			}
			runInteraction(a, i, key, func() error {
				return processor(a, i)
			})
		case discordgo.InteractionModalSubmit:
			key, _ := splitCustomID(i.ModalSubmitData().CustomID)
			processor, ok := modalProcessors[key]
			if !ok {
				a.Log().Error("No processor found for modal", slog.String("modal", key))
				respondErrorLogged(a, i)
				return
			}
			runInteraction(a, i, key, func() error {
				return processor(a, i)
			})
		}
	}
}

// runInteraction runs an interaction handler, timing it and converting any
// error into a user visible failure message.
func runInteraction(a IApp, i *discordgo.InteractionCreate, name string, fn func() error) {
	t := time.Now().UTC()
	defer func() {
		monitoring.DiscordCommandDuration.WithLabelValues(name).Observe(time.Since(t).Seconds())
	}()

	if err := fn(); err != nil {
		a.Log().Error(fmt.Sprintf("Error processing %s", name),
			slog.String(logging.KeyError, err.Error()),
			slog.String(logging.KeyGuild, i.GuildID),
			slog.String(logging.KeyUser, i.Member.User.ID),
		)
		respondErrorLogged(a, i)
	}
}

func respondErrorLogged(a IApp, i *discordgo.InteractionCreate) {
	if err := respondError(a, i); err != nil {
		a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
	}
}
