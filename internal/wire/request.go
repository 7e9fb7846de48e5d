package wire

// Request is one modify-call batch: an ordered run of toolpaths belonging
// to a single extruder on a single layer.
type Request struct {
	Paths      []PathData `json:"paths"`
	ExtruderNr int        `json:"extruder_nr"`
	LayerNr    int        `json:"layer_nr"`

	// ClientID identifies the slicer process this batch came from. It is
	// populated by the server from the transport-level handshake, not by
	// the slicer itself, so it never needs to round-trip through Extra.
	ClientID string `json:"-"`
}

// Status values for Response.Status, per spec §7's error-kind taxonomy
// collapsed to a single internal-error status on the wire.
const (
	StatusOK            = "ok"
	StatusInternalError = "internal_error"
)

// Response is the corresponding batch of possibly-subdivided toolpaths.
type Response struct {
	Paths  []PathData `json:"paths"`
	Status string     `json:"status"`
}
