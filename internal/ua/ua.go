// internal/ua/ua.go
//
// User-Agent classification for access logs.
//
// This wrapper isolates the third-party `github.com/avct/uasurfer` API so
// the rest of the codebase never sees its enums or structs.  The access
// log only needs a coarse picture: browser family, device class, and
// whether the client is a crawler.  Crawlers probing random Host headers
// are the main source of NotFound resolutions, so the bot flag is worth a
// column.
package ua

import (
	surfer "github.com/avct/uasurfer"
)

// Info is the coarse classification of one User-Agent header.
//
// Device is one of "desktop", "mobile", "tablet", or "other".
type Info struct {
	Browser string
	OS      string
	Device  string
	IsBot   bool
}

// Parse classifies a raw header.  An empty header yields Device "other".
func Parse(raw string) Info {
	if raw == "" {
		return Info{Device: "other"}
	}
	u := surfer.Parse(raw)

	info := Info{
		Browser: u.Browser.Name.StringTrimPrefix(),
		OS:      u.OS.Name.StringTrimPrefix(),
		IsBot:   u.IsBot(),
	}

	switch u.DeviceType {
	case surfer.DeviceComputer:
		info.Device = "desktop"
	case surfer.DeviceTablet:
		info.Device = "tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		info.Device = "mobile"
	default:
		info.Device = "other"
	}
	return info
}
