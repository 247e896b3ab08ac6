// Package profile provides optional runtime profiling of the scss command.
//
// Profiling is compiled in only with the "pprof" build tag, using
// [github.com/pkg/profile]. Without the tag every [Profiler] is a no-op and
// [Modes] is empty.
//
//	p := profile.Profiler{Mode: "cpu", Dir: "/tmp/scss"}
//	defer p.Start().Stop()
//
// Profiles are written to Dir with the file name chosen by the profiling
// mode (cpu.pprof, mem.pprof and so on) and are read with go tool pprof:
//
//	go tool pprof -http=: /tmp/scss/cpu.pprof
//
// With the tag, the package also registers the [net/http/pprof] handlers on
// [net/http.DefaultServeMux].
package profile
