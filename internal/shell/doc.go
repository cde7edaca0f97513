// Package shell runs an application across two threads.
//
// The main thread owns the platform window: it polls events, routes input,
// calls the Update hook and hands finished frames to the window. The render
// thread owns the graphics device and the UI: it runs queued work, calls the
// Render hook and submits frames. The two meet at the device's frame
// handshake, so at most one frame is ever in flight.
//
// Work reaches the render thread through a FIFO queue. Reset and Initialize
// are queued by Run before the first frame; user code queues more with
// App.Post and Schedule.
package shell
