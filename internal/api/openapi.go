package api

import (
	"encoding/json"
	"net/http"

	"github.com/webostools/tvbridge/internal/logx"
)

var openapiJSON = mustOpenAPISchema()

func mustOpenAPISchema() []byte {
	get := func(summary string) map[string]any {
		return map[string]any{
			"get": map[string]any{
				"summary": summary,
				"responses": map[string]any{
					"200": map[string]any{"description": "OK"},
				},
			},
		}
	}
	post := func(summary string, bodyProps map[string]any) map[string]any {
		op := map[string]any{
			"summary": summary,
			"responses": map[string]any{
				"200": map[string]any{"description": "OK"},
				"503": map[string]any{"description": "TV session not registered"},
				"504": map[string]any{"description": "No response from the TV"},
			},
		}
		if bodyProps != nil {
			op["requestBody"] = map[string]any{
				"required": true,
				"content": map[string]any{
					"application/json": map[string]any{
						"schema": map[string]any{
							"type":       "object",
							"properties": bodyProps,
						},
					},
				},
			}
		}
		return map[string]any{"post": op}
	}
	str := map[string]any{"type": "string"}

	schema := map[string]any{
		"openapi": "3.0.0",
		"info": map[string]any{
			"title":   "tvbridge API",
			"version": "1.0.0",
		},
		"paths": map[string]any{
			"/api/status":       get("Session status"),
			"/api/volume":       merge(get("Get volume"), post("Set volume", map[string]any{"volume": map[string]any{"type": "integer"}})),
			"/api/volume/up":    post("Volume up", nil),
			"/api/volume/down":  post("Volume down", nil),
			"/api/mute":         post("Set mute", map[string]any{"mute": map[string]any{"type": "boolean"}}),
			"/api/audio":        get("Audio status"),
			"/api/sound-output": merge(get("Get sound output"), post("Set sound output", map[string]any{"output": str})),
			"/api/inputs":       get("List external inputs"),
			"/api/input":        post("Switch input", map[string]any{"inputId": str}),
			"/api/apps":         get("List apps"),
			"/api/app": map[string]any{
				"post":   post("Launch app", map[string]any{"id": str})["post"],
				"delete": post("Close app", map[string]any{"id": str})["post"],
			},
			"/api/app/foreground": get("Foreground app"),
			"/api/power/off":      post("Power off; behavior when the TV is already off is firmware dependent", nil),
			"/api/power/on":       post("Wake the TV over the network", nil),
			"/api/screen/on":      post("Screen on", nil),
			"/api/screen/off":     post("Screen off", nil),
			"/api/reboot":         post("Reboot the TV", nil),
			"/api/channel":        merge(get("Current channel"), post("Open channel", map[string]any{"channelNumber": str})),
			"/api/channel/up":     post("Channel up", nil),
			"/api/channel/down":   post("Channel down", nil),
			"/api/channels":       get("Channel list"),
			"/api/toast":          post("Show a toast", map[string]any{"message": str}),
			"/api/alert":          post("Show an alert", map[string]any{"message": str, "buttons": map[string]any{"type": "array", "items": str}}),
			"/api/picture":        merge(get("Get picture settings"), post("Set picture settings", nil)),
			"/api/services":       get("Service list"),
			"/api/software":       get("Software info"),
			"/api/watchdog": map[string]any{
				"get":    get("Watchdog status")["get"],
				"post":   post("Start the sound output watchdog", map[string]any{"output": str})["post"],
				"delete": map[string]any{"summary": "Stop the watchdog", "responses": map[string]any{"200": map[string]any{"description": "OK"}}},
			},
			"/api/command/{name}": map[string]any{
				"post": map[string]any{
					"summary": "Issue a catalog command by name",
					"parameters": []any{
						map[string]any{"name": "name", "in": "path", "required": true, "schema": str},
					},
					"responses": map[string]any{
						"200": map[string]any{"description": "TV response payload"},
					},
				},
			},
		},
	}
	b, err := json.Marshal(schema)
	if err != nil {
		panic(err)
	}
	return b
}

func merge(ms ...map[string]any) map[string]any {
	out := map[string]any{}
	for _, m := range ms {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// OpenAPIHandler serves the API schema.
func OpenAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(openapiJSON); err != nil {
			logx.Log.Error().Err(err).Msg("write openapi")
		}
	}
}

const swaggerPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8" />
  <title>tvbridge API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
  window.onload = () => {
    SwaggerUIBundle({
      url: 'openapi.json',
      dom_id: '#swagger-ui'
    });
  };
  </script>
</body>
</html>`

// SwaggerHandler serves a minimal Swagger UI.
func SwaggerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write([]byte(swaggerPage)); err != nil {
			logx.Log.Error().Err(err).Msg("write swagger page")
		}
	}
}
