package utils

// ProcessGroup is the handle of the process group a mesh lives on. Meshes
// carry it so collective I/O done elsewhere can reach it; nothing in this
// module inspects or communicates on it.
type ProcessGroup interface{}

// SerialGroup is the process group of a single, non-parallel process.
var SerialGroup ProcessGroup = serialGroup{}

type serialGroup struct{}
