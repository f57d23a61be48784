package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/webostools/tvbridge/internal/client"
	"github.com/webostools/tvbridge/internal/wol"
)

type handlers struct {
	d Deps
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, raw json.RawMessage) {
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

// writeErr maps the client's error taxonomy onto HTTP statuses: not
// ready 503, timeout 504, device-side failures 502, everything else a
// caller mistake 400.
func writeErr(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, client.ErrNotReady):
		status = http.StatusServiceUnavailable
	case errors.Is(err, client.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, client.ErrClosed):
		status = http.StatusBadGateway
	case strings.HasPrefix(err.Error(), "tv error"):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(r *http.Request, v interface{}) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.d.Status())
}

func (h *handlers) getVolume(w http.ResponseWriter, r *http.Request) {
	v, err := h.d.TV.Volume(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"volume": v})
}

func (h *handlers) setVolume(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Volume *int `json:"volume"`
	}
	if err := decodeBody(r, &body); err != nil || body.Volume == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be {\"volume\": n}"})
		return
	}
	if err := h.d.TV.SetVolume(r.Context(), *body.Volume); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"volume": *body.Volume})
}

func (h *handlers) volumeUp(w http.ResponseWriter, r *http.Request) {
	h.simple(w, r, h.d.TV.VolumeUp)
}

func (h *handlers) volumeDown(w http.ResponseWriter, r *http.Request) {
	h.simple(w, r, h.d.TV.VolumeDown)
}

func (h *handlers) setMute(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mute *bool `json:"mute"`
	}
	if err := decodeBody(r, &body); err != nil || body.Mute == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be {\"mute\": bool}"})
		return
	}
	if err := h.d.TV.SetMute(r.Context(), *body.Mute); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"mute": *body.Mute})
}

func (h *handlers) audioStatus(w http.ResponseWriter, r *http.Request) {
	h.raw(w, r, h.d.TV.AudioStatus)
}

func (h *handlers) getSoundOutput(w http.ResponseWriter, r *http.Request) {
	out, err := h.d.TV.SoundOutput(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"soundOutput": out})
}

func (h *handlers) setSoundOutput(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Output string `json:"output"`
	}
	if err := decodeBody(r, &body); err != nil || body.Output == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be {\"output\": \"...\"}"})
		return
	}
	if err := h.d.TV.SetSoundOutput(r.Context(), body.Output); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"soundOutput": body.Output})
}

func (h *handlers) inputs(w http.ResponseWriter, r *http.Request) {
	h.raw(w, r, h.d.TV.Inputs)
}

func (h *handlers) switchInput(w http.ResponseWriter, r *http.Request) {
	var body struct {
		InputID string `json:"inputId"`
	}
	if err := decodeBody(r, &body); err != nil || body.InputID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be {\"inputId\": \"...\"}"})
		return
	}
	if err := h.d.TV.SwitchInput(r.Context(), body.InputID); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"inputId": body.InputID})
}

func (h *handlers) apps(w http.ResponseWriter, r *http.Request) {
	h.raw(w, r, h.d.TV.Apps)
}

func (h *handlers) launchApp(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID     string                 `json:"id"`
		Params map[string]interface{} `json:"params"`
	}
	if err := decodeBody(r, &body); err != nil || body.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be {\"id\": \"...\"}"})
		return
	}
	raw, err := h.d.TV.LaunchApp(r.Context(), body.ID, body.Params)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeRaw(w, raw)
}

func (h *handlers) closeApp(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if err := decodeBody(r, &body); err != nil || body.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be {\"id\": \"...\"}"})
		return
	}
	if err := h.d.TV.CloseApp(r.Context(), body.ID); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": body.ID})
}

func (h *handlers) foregroundApp(w http.ResponseWriter, r *http.Request) {
	h.raw(w, r, h.d.TV.ForegroundApp)
}

func (h *handlers) powerOff(w http.ResponseWriter, r *http.Request) {
	h.simple(w, r, h.d.TV.PowerOff)
}

// powerOn is not a TV command: an off TV has no session, so it gets a
// wake-on-LAN datagram instead.
func (h *handlers) powerOn(w http.ResponseWriter, r *http.Request) {
	if h.d.TVMAC == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no tv mac configured; set TV_MAC to enable wake-on-lan"})
		return
	}
	if err := wol.Send(h.d.TVMAC); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"sent": h.d.TVMAC})
}

func (h *handlers) screenOn(w http.ResponseWriter, r *http.Request) {
	h.simple(w, r, h.d.TV.ScreenOn)
}

func (h *handlers) screenOff(w http.ResponseWriter, r *http.Request) {
	h.simple(w, r, h.d.TV.ScreenOff)
}

func (h *handlers) reboot(w http.ResponseWriter, r *http.Request) {
	h.simple(w, r, h.d.TV.Reboot)
}

func (h *handlers) channelUp(w http.ResponseWriter, r *http.Request) {
	h.simple(w, r, h.d.TV.ChannelUp)
}

func (h *handlers) channelDown(w http.ResponseWriter, r *http.Request) {
	h.simple(w, r, h.d.TV.ChannelDown)
}

func (h *handlers) openChannel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Number string `json:"channelNumber"`
	}
	if err := decodeBody(r, &body); err != nil || body.Number == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be {\"channelNumber\": \"...\"}"})
		return
	}
	if err := h.d.TV.OpenChannel(r.Context(), body.Number); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"channelNumber": body.Number})
}

func (h *handlers) currentChannel(w http.ResponseWriter, r *http.Request) {
	h.raw(w, r, h.d.TV.CurrentChannel)
}

func (h *handlers) channelList(w http.ResponseWriter, r *http.Request) {
	h.raw(w, r, h.d.TV.ChannelList)
}

func (h *handlers) toast(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := decodeBody(r, &body); err != nil || body.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be {\"message\": \"...\"}"})
		return
	}
	if err := h.d.TV.Toast(r.Context(), body.Message); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": body.Message})
}

func (h *handlers) alert(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string   `json:"message"`
		Buttons []string `json:"buttons"`
	}
	if err := decodeBody(r, &body); err != nil || body.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be {\"message\": \"...\"}"})
		return
	}
	if len(body.Buttons) == 0 {
		body.Buttons = []string{"OK"}
	}
	if err := h.d.TV.Alert(r.Context(), body.Message, body.Buttons); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": body.Message})
}

func (h *handlers) getPicture(w http.ResponseWriter, r *http.Request) {
	keys := []string{"backlight", "brightness", "contrast", "color"}
	if q := r.URL.Query().Get("keys"); q != "" {
		keys = strings.Split(q, ",")
	}
	raw, err := h.d.TV.PictureSettings(r.Context(), keys)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeRaw(w, raw)
}

func (h *handlers) setPicture(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := decodeBody(r, &body); err != nil || len(body) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be a settings object"})
		return
	}
	if err := h.d.TV.SetPictureSettings(r.Context(), body); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *handlers) serviceList(w http.ResponseWriter, r *http.Request) {
	h.raw(w, r, h.d.TV.ServiceList)
}

func (h *handlers) softwareInfo(w http.ResponseWriter, r *http.Request) {
	h.raw(w, r, h.d.TV.SoftwareInfo)
}

func (h *handlers) startWatchdog(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Output string `json:"output"`
	}
	if err := decodeBody(r, &body); err != nil || body.Output == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be {\"output\": \"...\"}"})
		return
	}
	if err := h.d.Watchdog.Start(body.Output); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"output": body.Output})
}

func (h *handlers) stopWatchdog(w http.ResponseWriter, r *http.Request) {
	h.d.Watchdog.Stop()
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

func (h *handlers) watchdogStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"output": h.d.Watchdog.Desired()})
}

func (h *handlers) command(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var payload interface{}
	if r.ContentLength != 0 {
		if err := decodeBody(r, &payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be json"})
			return
		}
	}
	raw, err := h.d.TV.Do(r.Context(), name, payload)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeRaw(w, raw)
}

func (h *handlers) simple(w http.ResponseWriter, r *http.Request, op func(context.Context) error) {
	if err := op(r.Context()); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"returnValue": true})
}

func (h *handlers) raw(w http.ResponseWriter, r *http.Request, op func(context.Context) (json.RawMessage, error)) {
	raw, err := op(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeRaw(w, raw)
}
