package ssap

// RegisterPayload builds the handshake payload for a register frame.
// clientKey is included only when a credential from a previous pairing
// exists; without it the TV prompts the operator to confirm on screen.
func RegisterPayload(clientKey string) map[string]interface{} {
	p := map[string]interface{}{
		"forcePairing": false,
		"pairingType":  "PROMPT",
		"manifest":     manifest,
	}
	if clientKey != "" {
		p["client-key"] = clientKey
	}
	return p
}

// manifest describes the client identity and the permissions requested
// during pairing. The TV shows these to the operator on first pairing.
var manifest = map[string]interface{}{
	"manifestVersion": 1,
	"appVersion":      "1.1",
	"signed": map[string]interface{}{
		"created":   "20240401",
		"appId":     "com.webostools.tvbridge",
		"vendorId":  "com.webostools",
		"localizedAppNames": map[string]string{
			"": "tvbridge",
		},
		"localizedVendorNames": map[string]string{
			"": "webostools",
		},
		"permissions": []string{
			"TEST_SECURE",
			"CONTROL_INPUT_TEXT",
			"CONTROL_MOUSE_AND_KEYBOARD",
			"READ_INSTALLED_APPS",
			"READ_LGE_SDX",
			"READ_NOTIFICATIONS",
			"SEARCH",
			"WRITE_SETTINGS",
			"WRITE_NOTIFICATION_ALERT",
			"CONTROL_POWER",
			"READ_CURRENT_CHANNEL",
			"READ_RUNNING_APPS",
			"READ_UPDATE_INFO",
			"UPDATE_FROM_REMOTE_APP",
			"READ_LGE_TV_INPUT_EVENTS",
			"READ_TV_CURRENT_TIME",
		},
		"serial": "2f930e2d2cfe083771f68e4fe7bb07",
	},
	"permissions": []string{
		"LAUNCH",
		"LAUNCH_WEBAPP",
		"APP_TO_APP",
		"CLOSE",
		"TEST_OPEN",
		"TEST_PROTECTED",
		"CONTROL_AUDIO",
		"CONTROL_DISPLAY",
		"CONTROL_INPUT_JOYSTICK",
		"CONTROL_INPUT_MEDIA_RECORDING",
		"CONTROL_INPUT_MEDIA_PLAYBACK",
		"CONTROL_INPUT_TV",
		"CONTROL_POWER",
		"READ_APP_STATUS",
		"READ_CURRENT_CHANNEL",
		"READ_INPUT_DEVICE_LIST",
		"READ_NETWORK_STATE",
		"READ_RUNNING_APPS",
		"READ_TV_CHANNEL_LIST",
		"WRITE_NOTIFICATION_TOAST",
		"READ_POWER_STATE",
		"READ_COUNTRY_INFO",
		"READ_SETTINGS",
		"CONTROL_TV_SCREEN",
		"CONTROL_TV_STANBY",
		"CONTROL_FAVORITE_GROUP",
		"CONTROL_USER_INFO",
		"CHECK_BLUETOOTH_DEVICE",
		"CONTROL_BLUETOOTH",
		"CONTROL_TIMER_INFO",
		"STB_INTERNAL_CONNECTION",
		"CONTROL_RECORDING",
		"READ_RECORDING_STATE",
		"WRITE_RECORDING_LIST",
		"READ_RECORDING_LIST",
		"READ_RECORDING_SCHEDULE",
		"WRITE_RECORDING_SCHEDULE",
		"READ_STORAGE_DEVICE_LIST",
		"READ_TV_PROGRAM_INFO",
		"CONTROL_BOX_CHANNEL",
		"READ_TV_ACR_AUTH_TOKEN",
		"READ_TV_CONTENT_STATE",
		"READ_TV_CURRENT_TIME",
		"ADD_LAUNCHER_CHANNEL",
		"SET_CHANNEL_SKIP",
		"RELEASE_CHANNEL_SKIP",
		"CONTROL_CHANNEL_BLOCK",
		"DELETE_SELECT_CHANNEL",
		"CONTROL_CHANNEL_GROUP",
		"SCAN_TV_CHANNELS",
		"CONTROL_TV_POWER",
		"CONTROL_WOL",
	},
}
