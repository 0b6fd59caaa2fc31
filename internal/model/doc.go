package model

// Package model defines domain data structures shared by the controller and
// the front-ends: session states, log/stream events and download requests.
// Values are plain data; events are immutable once constructed.
