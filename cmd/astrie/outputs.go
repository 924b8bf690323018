package main

import (
	"slices"
	"strconv"
)

// outputList records requested output notations in command-line order.
// pflag sets flag values while parsing, so --out and --out-<key> append to
// the same list as they are met.
type outputList struct {
	keys []string
}

func (l *outputList) add(key string) {
	if !slices.Contains(l.keys, key) {
		l.keys = append(l.keys, key)
	}
}

func (l *outputList) remove(key string) {
	l.keys = slices.DeleteFunc(l.keys, func(k string) bool { return k == key })
}

// outValue is the repeatable --out flag.
type outValue struct {
	list *outputList
}

func (v outValue) String() string { return "" }

func (v outValue) Set(s string) error {
	v.list.add(s)

	return nil
}

func (v outValue) Type() string { return "string" }

// keyValue is one boolean --out-<key> flag.
type keyValue struct {
	key  string
	list *outputList
}

func (v keyValue) String() string {
	return strconv.FormatBool(slices.Contains(v.list.keys, v.key))
}

func (v keyValue) Set(s string) error {
	on, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}

	if on {
		v.list.add(v.key)
	} else {
		v.list.remove(v.key)
	}

	return nil
}

func (v keyValue) Type() string { return "bool" }
