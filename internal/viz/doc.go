// Package viz renders relaxation runs in the terminal: a braille-pixel
// canvas, a rotatable 3D projection of the charge sphere, and a
// bubbletea live view.
package viz
