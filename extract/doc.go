// Package extract maps the residual primitives of a calibrated document to
// lesson slots: each leftover fill becomes a day-bucketed time slot, and each
// leftover text run is attributed to the slot it visually belongs to.
//
// Both passes are pure computations over in-memory data and are safe to run
// on any worker without synchronization.
package extract
