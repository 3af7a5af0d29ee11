// Package connectivity filters resolved entries by the shell's
// online/offline mode.
//
// The filter is a pure, order-preserving function. Descriptors that predate
// the connectivity flags omit them and default to supported in both modes.
package connectivity
