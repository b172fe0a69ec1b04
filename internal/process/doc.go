// Package process isolates platform-specific handling of compiler child
// processes: starting them in their own group and tearing the whole group
// down on timeout or cancellation.
package process
