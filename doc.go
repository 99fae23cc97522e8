// Package treeftp implements an FTP client specialized in discovering and
// rendering remote directory hierarchies.
//
// # Overview
//
// The client keeps a single long-lived control connection for commands and
// opens a short-lived passive-mode data connection per directory listing.
// On top of the raw listing fetch it provides three views of the remote
// hierarchy, each bounded by a maximum depth:
//   - depth-first printing in the style of the Unix tree command
//   - breadth-first printing with indentation per level
//   - an in-memory TreeNode tree suitable for JSON export
//
// Transient control-channel failures are recovered transparently: a failed
// read triggers reconnection and is retried up to a configurable attempt
// bound with a fixed backoff. Authentication failures are never retried.
//
// # Basic Usage
//
//	client, err := treeftp.Dial("ftp.example.com:21")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Quit()
//
//	if err := client.Login("anonymous", "anonymous@example.com"); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Print the whole hierarchy, at most two levels deep.
//	if err := client.PrintTreeDFS(os.Stdout, "/", 2); err != nil {
//	    log.Fatal(err)
//	}
//
// # Tree Export
//
//	root, err := client.BuildTree("/", 2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := root.WriteJSON("directory_structure.json"); err != nil {
//	    log.Printf("export failed: %v", err)
//	}
//
// # Error Handling
//
// Failures carry typed context. Use errors.As to inspect them:
//
//	if err := client.Login(user, pass); err != nil {
//	    var authErr *treeftp.AuthError
//	    if errors.As(err, &authErr) {
//	        fmt.Printf("rejected by %s with code %d\n", authErr.Command, authErr.Code)
//	    }
//	}
//
// # Concurrency
//
// A Client owns exactly one control transport and the wire protocol is
// strict request/response; Client is not safe for concurrent use. Callers
// that share a Client across goroutines must serialize every operation.
package treeftp
