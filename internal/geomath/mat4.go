package geomath

// Mat4 is a row-major 4x4 double matrix, used for tile local-to-parent
// transforms and the geocentric-to-renderer axis remap the quantized-mesh
// decoder's output node carries.
type Mat4 [16]float64

// Identity4 returns the identity transform.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns a*b (applying b first, then a, to a column vector).
func (a Mat4) Mul(b Mat4) Mat4 {
	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a[row*4+k] * b[k*4+col]
			}
			out[row*4+col] = sum
		}
	}
	return out
}

// TransformPoint applies the matrix to a point (w=1).
func (a Mat4) TransformPoint(v Vec3) Vec3 {
	x := a[0]*v.X + a[1]*v.Y + a[2]*v.Z + a[3]
	y := a[4]*v.X + a[5]*v.Y + a[6]*v.Z + a[7]
	z := a[8]*v.X + a[9]*v.Y + a[10]*v.Z + a[11]
	return Vec3{X: x, Y: y, Z: z}
}

// TransformDirection applies only the matrix's rotation/scale part (w=0),
// used for normals and the oct-decoded vertex normals.
func (a Mat4) TransformDirection(v Vec3) Vec3 {
	x := a[0]*v.X + a[1]*v.Y + a[2]*v.Z
	y := a[4]*v.X + a[5]*v.Y + a[6]*v.Z
	z := a[8]*v.X + a[9]*v.Y + a[10]*v.Z
	return Vec3{X: x, Y: y, Z: z}
}

// Translation returns a pure-translation matrix.
func Translation(t Vec3) Mat4 {
	m := Identity4()
	m[3] = t.X
	m[7] = t.Y
	m[11] = t.Z
	return m
}

// GeocentricToYUp is the fixed axis remap from a Z-up geocentric frame to
// the renderer's expected Y-up frame, composed with a translation by
// center: the same remap the quantized-mesh decoder's original
// implementation bakes into its output glTF node.
func GeocentricToYUp(center Vec3) Mat4 {
	return Mat4{
		1, 0, 0, center.X,
		0, 0, 1, center.Z,
		0, -1, 0, -center.Y,
		0, 0, 0, 1,
	}
}
