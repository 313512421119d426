package fxt

import (
	"fmt"
	"io"
	"strings"
)

func Fprintfln(w io.Writer, tmpl string, a ...interface{}) {
	fmt.Fprintf(w, tmpl+"\n", a...)
}

// Fprintcmdln writes args space separated, quoting any arg that wouldn't
// survive being split on whitespace.
func Fprintcmdln(w io.Writer, args []string) {
	v := make([]string, 0, len(args))
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\n\"'") {
			a = fmt.Sprintf("%q", a)
		}
		v = append(v, a)
	}
	fmt.Fprintln(w, strings.Join(v, " "))
}
