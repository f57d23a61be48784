package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/webostools/tvbridge/internal/client"
	"github.com/webostools/tvbridge/internal/commands"
	"github.com/webostools/tvbridge/internal/watchdog"
)

// Deps wires the router to the rest of the daemon.
type Deps struct {
	TV       *commands.Facade
	Status   func() client.Snapshot
	Watchdog *watchdog.Watchdog
	TVMAC    string
}

// NewRouter builds the REST facade.
func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	for _, m := range middlewareChain() {
		r.Use(m)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.json", OpenAPIHandler())
	r.Get("/docs", SwaggerHandler())

	h := &handlers{d: d}
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", h.status)

		r.Get("/volume", h.getVolume)
		r.Post("/volume", h.setVolume)
		r.Post("/volume/up", h.volumeUp)
		r.Post("/volume/down", h.volumeDown)
		r.Post("/mute", h.setMute)
		r.Get("/audio", h.audioStatus)

		r.Get("/sound-output", h.getSoundOutput)
		r.Post("/sound-output", h.setSoundOutput)

		r.Get("/inputs", h.inputs)
		r.Post("/input", h.switchInput)

		r.Get("/apps", h.apps)
		r.Post("/app", h.launchApp)
		r.Delete("/app", h.closeApp)
		r.Get("/app/foreground", h.foregroundApp)

		r.Post("/power/off", h.powerOff)
		r.Post("/power/on", h.powerOn)
		r.Post("/screen/on", h.screenOn)
		r.Post("/screen/off", h.screenOff)
		r.Post("/reboot", h.reboot)

		r.Post("/channel/up", h.channelUp)
		r.Post("/channel/down", h.channelDown)
		r.Post("/channel", h.openChannel)
		r.Get("/channel", h.currentChannel)
		r.Get("/channels", h.channelList)

		r.Post("/toast", h.toast)
		r.Post("/alert", h.alert)

		r.Get("/picture", h.getPicture)
		r.Post("/picture", h.setPicture)

		r.Get("/services", h.serviceList)
		r.Get("/software", h.softwareInfo)

		r.Post("/watchdog", h.startWatchdog)
		r.Delete("/watchdog", h.stopWatchdog)
		r.Get("/watchdog", h.watchdogStatus)

		r.Post("/command/{name}", h.command)
	})
	return r
}
