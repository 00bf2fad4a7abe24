// Package fifo exports a [host.Host] to other processes using named pipes.
//
// This transport is intended for testing and local tooling. A [Server] and
// any number of [Client] processes share a bus directory; each client owns
// one subdirectory with a FIFO pair:
//
//	/tmp/softchar-bus/               # Bus directory (shared)
//	└── client-{uuid}/               # Client subdirectory (unique per client)
//	    ├── request                  # Frames from client to server
//	    └── response                 # Frames from server to client
//
// Clients build their FIFOs in a hidden staging directory and rename it into
// place, so the server only ever discovers complete clients.
//
// # Protocol
//
// Every frame is [type u8][length u16 LE][payload]. Clients send open, read,
// write, release, list, log and hangup requests. The server answers with a
// data frame, an ack, or an error frame carrying the errno a kernel driver
// would return (EBUSY for a second open, EINVAL for a write, ...). An empty
// data frame in answer to a read marks end-of-stream.
//
// # Usage
//
//	// Server process
//	srv := fifo.NewServer("/tmp/softchar-bus", h)
//	go srv.Serve(ctx)
//
//	// Client process
//	cl, _ := fifo.Dial(ctx, "/tmp/softchar-bus")
//	defer cl.Close()
//	cl.Open(ctx, "softchar")
//	io.Copy(os.Stdout, cl.Reader(ctx, 64))
//	cl.Release(ctx)
package fifo
