package utils

// Geometric tolerance below which a segment or gradient is treated as zero
const NODETOL = 1.e-12
