// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package diag

import "os"

// fatalExit terminates the process. Indirected through a package variable
// so tests can exercise Sink.Fatal's formatting without killing the test
// binary.
var fatalExit = func() { os.Exit(1) }
