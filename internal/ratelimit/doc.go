// Package ratelimit implements per-client admission control.
//
// Each client key gets a fixed-duration window with a request ceiling. The
// window resets wholesale when its expiry elapses. Expired records are swept
// opportunistically to keep the map bounded in long-running processes.
package ratelimit
