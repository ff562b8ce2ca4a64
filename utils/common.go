package utils

const (
	// GEOMTOL is the default relative tolerance used to decide whether two
	// positions coincide, e.g. a vertex and its periodic image.
	GEOMTOL = 1.e-6
	// ANGLETOL is the angular tolerance (radians) used to group face normals.
	ANGLETOL = 1.e-4
)
