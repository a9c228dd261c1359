package shader

// Value is a typed uniform value. The set of implementations is closed so the
// uniform binder can switch exhaustively instead of resolving types at bind
// time.
//
// Matrix values are row-major; binders targeting column-major APIs (OpenGL)
// transpose at upload.
type Value interface {
	isValue()
}

// Float is a scalar float uniform.
type Float float32

// Int is a scalar integer uniform.
type Int int32

// Bool is a boolean uniform, uploaded as an integer.
type Bool bool

// Vec2 is a 2-component vector uniform.
type Vec2 [2]float32

// Vec3 is a 3-component vector uniform.
type Vec3 [3]float32

// Vec4 is a 4-component vector uniform.
type Vec4 [4]float32

// Mat2 is a row-major 2x2 matrix uniform.
type Mat2 [4]float32

// Mat3 is a row-major 3x3 matrix uniform.
type Mat3 [9]float32

// Mat4 is a row-major 4x4 matrix uniform.
type Mat4 [16]float32

func (Float) isValue() {}
func (Int) isValue()   {}
func (Bool) isValue()  {}
func (Vec2) isValue()  {}
func (Vec3) isValue()  {}
func (Vec4) isValue()  {}
func (Mat2) isValue()  {}
func (Mat3) isValue()  {}
func (Mat4) isValue()  {}
