// Package color provides the reference counted Color and Palette objects
// carried by color and palette parameters.
//
// RGBA is the plain value type. Color and Palette embed object.Object so a
// parameter value can share them by reference:
//
//	c := color.New(0x12, 0x34, 0x56, 0xFF)
//	defer c.Unref()
//
//	fmt.Println(c.Hex()) // #123456
package color
