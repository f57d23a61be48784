package commands

// Catalog maps semantic operation names to relative ssap paths. It is
// pure data; the payload shape for each operation is defined by the TV.
var Catalog = map[string]string{
	"volumeGet":      "audio/getVolume",
	"volumeSet":      "audio/setVolume",
	"volumeUp":       "audio/volumeUp",
	"volumeDown":     "audio/volumeDown",
	"muteSet":        "audio/setMute",
	"audioStatus":    "audio/getStatus",
	"soundOutputGet": "com.webos.service.apiadapter/audio/getSoundOutput",
	"soundOutputSet": "com.webos.service.apiadapter/audio/changeSoundOutput",
	"inputList":      "tv/getExternalInputList",
	"inputSwitch":    "tv/switchInput",
	"appList":        "com.webos.applicationManager/listApps",
	"appLaunch":      "system.launcher/launch",
	"appClose":       "system.launcher/close",
	"appForeground":  "com.webos.applicationManager/getForegroundAppInfo",
	"powerOff":       "system/turnOff",
	"screenOff":      "com.webos.service.tvpower/power/turnOffScreen",
	"screenOn":       "com.webos.service.tvpower/power/turnOnScreen",
	"reboot":         "com.webos.service.tvpower/power/reboot",
	"channelUp":      "tv/channelUp",
	"channelDown":    "tv/channelDown",
	"channelOpen":    "tv/openChannel",
	"channelCurrent": "tv/getCurrentChannel",
	"channelList":    "tv/getChannelList",
	"toast":          "system.notifications/createToast",
	"alert":          "system.notifications/createAlert",
	"pictureGet":     "settings/getSystemSettings",
	"pictureSet":     "settings/setSystemSettings",
	"serviceList":    "api/getServiceList",
	"softwareInfo":   "com.webos.service.update/getCurrentSWInformation",
}

// SoundOutputs enumerates the sound output values the TV accepts.
var SoundOutputs = []string{
	"tv_speaker",
	"external_speaker",
	"external_arc",
	"external_optical",
	"lineout",
	"headphone",
	"bt_soundbar",
}

// ValidSoundOutput reports whether s is a recognized sound output value.
func ValidSoundOutput(s string) bool {
	for _, v := range SoundOutputs {
		if v == s {
			return true
		}
	}
	return false
}
