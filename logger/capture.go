package logger

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// stackFrame is a raw frame from the runtime. Go does not report columns,
// so column stays 0 until a symbol map supplies one.
type stackFrame struct {
	function string
	file     string
	line     uint32
	column   uint32
}

// entryPoints are the functions of this package that sit between the
// caller and the runtime and must never show up in a reported stack.
var entryPoints = map[string]struct{}{
	"Log":           {},
	"LogIf":         {},
	"LogWhenEnv":    {},
	"AddLog":        {},
	"AddLogIf":      {},
	"AddLogWhenEnv": {},
	"captureFrames": {},
	"createLog":     {},
}

var packagePath = func() string {
	pc, _, _, _ := runtime.Caller(0)
	pkg, _ := splitFuncName(runtime.FuncForPC(pc).Name())
	return pkg
}()

var goroot = filepath.ToSlash(filepath.Clean(runtime.GOROOT()))

// captureFrames walks the whole stack of the calling goroutine and returns
// the frames left after filtering, outermost first.
func captureFrames() []stackFrame {
	pcs := make([]uintptr, 64)
	var n int
	for {
		// skip runtime.Callers
		n = runtime.Callers(1, pcs)
		if n < len(pcs) {
			break
		}
		pcs = make([]uintptr, len(pcs)*2)
	}

	var out []stackFrame
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if f.Function != "" && !skipFrame(f.Function, f.File) {
			out = append(out, stackFrame{
				function: f.Function,
				file:     f.File,
				line:     uint32(f.Line),
			})
		}
		if !more {
			break
		}
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// skipFrame reports whether a frame belongs to the logger itself, to the Go
// runtime and standard library, or to an installed dependency.
func skipFrame(function, file string) bool {
	pkg, name := splitFuncName(function)
	if pkg == packagePath {
		if _, ok := entryPoints[name]; ok {
			return true
		}
	}
	if pkg == "runtime" {
		return true
	}
	return isLibraryFile(file)
}

func isLibraryFile(file string) bool {
	file = filepath.ToSlash(file)
	if goroot != "" && goroot != "." && strings.HasPrefix(file, goroot+"/src/") {
		return true
	}
	if modcache := os.Getenv("GOMODCACHE"); modcache != "" &&
		strings.HasPrefix(file, filepath.ToSlash(filepath.Clean(modcache))+"/") {
		return true
	}
	return strings.Contains(file, "/pkg/mod/") || strings.Contains(file, "/vendor/")
}

// splitFuncName splits a runtime function name such as
// "github.com/a/b.(*T).Method" into its import path and the last name
// element ("Method").
func splitFuncName(function string) (pkg, name string) {
	slash := strings.LastIndexByte(function, '/')
	dot := strings.IndexByte(function[slash+1:], '.')
	if dot < 0 {
		return "", function
	}
	pkg = function[:slash+1+dot]
	name = function[strings.LastIndexByte(function, '.')+1:]
	return pkg, name
}
