// Package ipcversion holds the wire-protocol revision this module
// implements, in the style of krd's common/version package.
package ipcversion

import "github.com/blang/semver"

// CURRENT_VERSION is the revision of the ufo_ipc wire protocol this module
// speaks. The handshake carries no schema negotiation, so nothing on the
// wire currently negotiates this value; it exists for diagnostics and for a
// future handshake extension to compare against.
var CURRENT_VERSION = semver.MustParse("1.0.0")
