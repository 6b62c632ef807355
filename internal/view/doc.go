// Package view holds the presentation side of the tracker. Both views are
// driven purely by registry events and never query the task server, so a
// filter change or a redraw cannot alter task state.
package view
