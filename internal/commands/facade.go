package commands

import (
	"context"
	"encoding/json"
	"fmt"
)

// Requester sends one correlated command to the TV. *client.Client
// satisfies it.
type Requester interface {
	Request(ctx context.Context, uri string, payload interface{}) (json.RawMessage, error)
	Registered() bool
}

// Facade exposes one method per semantic TV operation, each resolving to
// a fixed path from the catalog.
type Facade struct {
	tv Requester
}

// New wraps a Requester.
func New(tv Requester) *Facade { return &Facade{tv: tv} }

// Registered reports whether the underlying session can take commands.
func (f *Facade) Registered() bool { return f.tv.Registered() }

// Do issues a catalog operation by name with an arbitrary payload.
func (f *Facade) Do(ctx context.Context, name string, payload interface{}) (json.RawMessage, error) {
	path, ok := Catalog[name]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", name)
	}
	return f.tv.Request(ctx, path, payload)
}

// Volume reads the current volume level.
func (f *Facade) Volume(ctx context.Context) (int, error) {
	raw, err := f.tv.Request(ctx, Catalog["volumeGet"], nil)
	if err != nil {
		return 0, err
	}
	var p struct {
		Volume int `json:"volume"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return 0, fmt.Errorf("decode volume: %w", err)
	}
	return p.Volume, nil
}

// SetVolume sets the absolute volume level.
func (f *Facade) SetVolume(ctx context.Context, volume int) error {
	_, err := f.tv.Request(ctx, Catalog["volumeSet"], map[string]int{"volume": volume})
	return err
}

func (f *Facade) VolumeUp(ctx context.Context) error {
	_, err := f.tv.Request(ctx, Catalog["volumeUp"], nil)
	return err
}

func (f *Facade) VolumeDown(ctx context.Context) error {
	_, err := f.tv.Request(ctx, Catalog["volumeDown"], nil)
	return err
}

// SetMute mutes or unmutes the TV.
func (f *Facade) SetMute(ctx context.Context, mute bool) error {
	_, err := f.tv.Request(ctx, Catalog["muteSet"], map[string]bool{"mute": mute})
	return err
}

// AudioStatus returns the raw audio status payload.
func (f *Facade) AudioStatus(ctx context.Context) (json.RawMessage, error) {
	return f.tv.Request(ctx, Catalog["audioStatus"], nil)
}

// SoundOutput reads the current audio routing target.
func (f *Facade) SoundOutput(ctx context.Context) (string, error) {
	raw, err := f.tv.Request(ctx, Catalog["soundOutputGet"], nil)
	if err != nil {
		return "", err
	}
	var p struct {
		SoundOutput string `json:"soundOutput"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", fmt.Errorf("decode sound output: %w", err)
	}
	return p.SoundOutput, nil
}

// SetSoundOutput switches audio routing to the given output.
func (f *Facade) SetSoundOutput(ctx context.Context, output string) error {
	_, err := f.tv.Request(ctx, Catalog["soundOutputSet"], map[string]string{"output": output})
	return err
}

// Inputs lists the external inputs.
func (f *Facade) Inputs(ctx context.Context) (json.RawMessage, error) {
	return f.tv.Request(ctx, Catalog["inputList"], nil)
}

// SwitchInput switches to the external input with the given id.
func (f *Facade) SwitchInput(ctx context.Context, inputID string) error {
	_, err := f.tv.Request(ctx, Catalog["inputSwitch"], map[string]string{"inputId": inputID})
	return err
}

// Apps lists the installed applications.
func (f *Facade) Apps(ctx context.Context) (json.RawMessage, error) {
	return f.tv.Request(ctx, Catalog["appList"], nil)
}

// LaunchApp starts an application, optionally passing launch parameters.
func (f *Facade) LaunchApp(ctx context.Context, appID string, params map[string]interface{}) (json.RawMessage, error) {
	payload := map[string]interface{}{"id": appID}
	if len(params) > 0 {
		payload["params"] = params
	}
	return f.tv.Request(ctx, Catalog["appLaunch"], payload)
}

// CloseApp closes a running application.
func (f *Facade) CloseApp(ctx context.Context, appID string) error {
	_, err := f.tv.Request(ctx, Catalog["appClose"], map[string]string{"id": appID})
	return err
}

// ForegroundApp returns information about the app in the foreground.
func (f *Facade) ForegroundApp(ctx context.Context) (json.RawMessage, error) {
	return f.tv.Request(ctx, Catalog["appForeground"], nil)
}

// PowerOff requests power-off. Behavior when the TV is already off is
// firmware dependent and not guaranteed.
func (f *Facade) PowerOff(ctx context.Context) error {
	_, err := f.tv.Request(ctx, Catalog["powerOff"], nil)
	return err
}

func (f *Facade) ScreenOff(ctx context.Context) error {
	_, err := f.tv.Request(ctx, Catalog["screenOff"], nil)
	return err
}

func (f *Facade) ScreenOn(ctx context.Context) error {
	_, err := f.tv.Request(ctx, Catalog["screenOn"], nil)
	return err
}

// Reboot restarts the TV.
func (f *Facade) Reboot(ctx context.Context) error {
	_, err := f.tv.Request(ctx, Catalog["reboot"], nil)
	return err
}

func (f *Facade) ChannelUp(ctx context.Context) error {
	_, err := f.tv.Request(ctx, Catalog["channelUp"], nil)
	return err
}

func (f *Facade) ChannelDown(ctx context.Context) error {
	_, err := f.tv.Request(ctx, Catalog["channelDown"], nil)
	return err
}

// OpenChannel tunes to a channel by number.
func (f *Facade) OpenChannel(ctx context.Context, number string) error {
	_, err := f.tv.Request(ctx, Catalog["channelOpen"], map[string]string{"channelNumber": number})
	return err
}

// CurrentChannel returns the channel currently tuned.
func (f *Facade) CurrentChannel(ctx context.Context) (json.RawMessage, error) {
	return f.tv.Request(ctx, Catalog["channelCurrent"], nil)
}

// ChannelList returns the full channel list.
func (f *Facade) ChannelList(ctx context.Context) (json.RawMessage, error) {
	return f.tv.Request(ctx, Catalog["channelList"], nil)
}

// Toast shows a short notification on screen.
func (f *Facade) Toast(ctx context.Context, message string) error {
	_, err := f.tv.Request(ctx, Catalog["toast"], map[string]string{"message": message})
	return err
}

// Alert shows a modal alert with the given buttons.
func (f *Facade) Alert(ctx context.Context, message string, buttons []string) error {
	bs := make([]map[string]string, 0, len(buttons))
	for _, b := range buttons {
		bs = append(bs, map[string]string{"label": b})
	}
	_, err := f.tv.Request(ctx, Catalog["alert"], map[string]interface{}{
		"message": message,
		"buttons": bs,
	})
	return err
}

// PictureSettings reads picture settings for the given keys.
func (f *Facade) PictureSettings(ctx context.Context, keys []string) (json.RawMessage, error) {
	return f.tv.Request(ctx, Catalog["pictureGet"], map[string]interface{}{
		"category": "picture",
		"keys":     keys,
	})
}

// SetPictureSettings writes picture settings.
func (f *Facade) SetPictureSettings(ctx context.Context, settings map[string]interface{}) error {
	_, err := f.tv.Request(ctx, Catalog["pictureSet"], map[string]interface{}{
		"category": "picture",
		"settings": settings,
	})
	return err
}

// ServiceList returns the services exposed by the TV.
func (f *Facade) ServiceList(ctx context.Context) (json.RawMessage, error) {
	return f.tv.Request(ctx, Catalog["serviceList"], nil)
}

// SoftwareInfo returns firmware version details.
func (f *Facade) SoftwareInfo(ctx context.Context) (json.RawMessage, error) {
	return f.tv.Request(ctx, Catalog["softwareInfo"], nil)
}
