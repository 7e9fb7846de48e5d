package wire

// BroadcastMessage is the one-time per-session settings payload a client
// sends before its first request: the plugin identity it believes it's
// talking to, and one settings map per extruder, in extruder order.
type BroadcastMessage struct {
	PluginName       string              `json:"plugin_name"`
	PluginMajor      int                 `json:"plugin_major"`
	PluginMinor      int                 `json:"plugin_minor"`
	PluginPatch      int                 `json:"plugin_patch"`
	ExtruderSettings []map[string]string `json:"extruder_settings"`
}
