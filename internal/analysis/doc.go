// Package analysis provides geometric diagnostics over final charge
// configurations: pairwise angles, separations, potential energy and
// simple histograms.
package analysis
