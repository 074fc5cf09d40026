// Package render turns assistant replies into styled terminal output.
package render

import "github.com/ollamachat/ollamachat/internal/config"

// Options configures the markdown renderer. It is comparable and doubles
// as the renderer pool key.
type Options struct {
	// Width is the word-wrap column (default: 80)
	Width int

	// Style is a glamour style name, one of our aliases, or a JSON style path
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions mirrors config.DefaultMarkdownConfig at 80 columns.
func DefaultOptions() Options {
	return FromMarkdownConfig(config.DefaultMarkdownConfig(), 80)
}

// FromMarkdownConfig builds Options from the markdown section of the config file.
func FromMarkdownConfig(md config.MarkdownConfig, width int) Options {
	opts := Options{
		Width:            width,
		Style:            md.Style,
		EnableEmoji:      md.EnableEmoji,
		PreserveNewLines: md.PreserveNewLines,
		TableWrap:        md.TableWrap,
		InlineTableLinks: md.InlineTableLinks,
	}
	if opts.Style == "" {
		opts.Style = StyleDark
	}
	return opts
}

// WithWidth returns a copy with the given wrap width. Non-positive widths
// fall back to 80.
func (o Options) WithWidth(width int) Options {
	if width <= 0 {
		width = 80
	}
	o.Width = width
	return o
}

// WithStyle returns a copy using style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// WithEmoji toggles :emoji: conversion.
func (o Options) WithEmoji(enabled bool) Options {
	o.EnableEmoji = enabled
	return o
}
