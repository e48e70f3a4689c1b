package schema

import "github.com/arloliu/jseis/format"

// LivenessLabel is the default header field used to tell live traces from padding.
// A trace whose TRC_TYPE is 0 is treated as dead.
const LivenessLabel = "TRC_TYPE"

// DefaultFields returns the standard trace properties written into new datasets.
func DefaultFields() []FieldDescriptor {
	return []FieldDescriptor{
		{Label: "SEQNO", Description: "Sequence number in ensemble", Kind: format.KindInt32, Count: 1},
		{Label: "END_ENS", Description: "End-of-ensemble flag", Kind: format.KindInt32, Count: 1},
		{Label: "EOJ", Description: "End of job flag", Kind: format.KindInt32, Count: 1},
		{Label: "TRACENO", Description: "Trace number in seismic line", Kind: format.KindInt32, Count: 1},
		{Label: LivenessLabel, Description: "Trace type (data, aux, etc.)", Kind: format.KindInt32, Count: 1},
		{Label: "TLIVE_S", Description: "Start time of live samples", Kind: format.KindFloat32, Count: 1},
		{Label: "TFULL_S", Description: "Start time of full samples", Kind: format.KindFloat32, Count: 1},
		{Label: "TFULL_E", Description: "End time of full samples", Kind: format.KindFloat32, Count: 1},
		{Label: "TLIVE_E", Description: "End time of live samples", Kind: format.KindFloat32, Count: 1},
		{Label: "LEN_SURG", Description: "Length of surgical mute taper", Kind: format.KindFloat32, Count: 1},
		{Label: "TOT_STAT", Description: "Total static for this trace", Kind: format.KindFloat32, Count: 1},
		{Label: "NA_STAT", Description: "Portion of static not applied", Kind: format.KindFloat32, Count: 1},
		{Label: "AMP_NORM", Description: "Amplitude normalization factor", Kind: format.KindFloat32, Count: 1},
		{Label: "TR_FOLD", Description: "Actual trace fold", Kind: format.KindFloat32, Count: 1},
		{Label: "SKEWSTAT", Description: "Multiplex skew static", Kind: format.KindFloat32, Count: 1},
		{Label: "LINE_NO", Description: "Line number (hashed line name)", Kind: format.KindInt32, Count: 1},
		{Label: "LSEG_END", Description: "Line segment end", Kind: format.KindInt32, Count: 1},
		{Label: "LSEG_SEQ", Description: "Line segment sequence number", Kind: format.KindInt32, Count: 1},
	}
}
