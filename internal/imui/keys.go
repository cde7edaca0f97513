package imui

// Key indexes the keyboard state. Values match the GLFW key codes so a
// platform using them can forward keys unchanged.
type Key int

const (
	KeySpace Key = 32
	KeyA     Key = 65
	KeyC     Key = 67
	KeyU     Key = 85
	KeyV     Key = 86
	KeyW     Key = 87
	KeyX     Key = 88

	KeyEscape    Key = 256
	KeyEnter     Key = 257
	KeyTab       Key = 258
	KeyBackspace Key = 259
	KeyInsert    Key = 260
	KeyDelete    Key = 261
	KeyRight     Key = 262
	KeyLeft      Key = 263
	KeyDown      Key = 264
	KeyUp        Key = 265
	KeyPageUp    Key = 266
	KeyPageDown  Key = 267
	KeyHome      Key = 268
	KeyEnd       Key = 269

	KeyLeftShift    Key = 340
	KeyLeftControl  Key = 341
	KeyLeftAlt      Key = 342
	KeyLeftSuper    Key = 343
	KeyRightShift   Key = 344
	KeyRightControl Key = 345
	KeyRightAlt     Key = 346
	KeyRightSuper   Key = 347
)

// KeyCount bounds the key codes AddKeyEvent accepts.
const KeyCount = 512

// MouseButtonCount is the number of tracked mouse buttons.
const MouseButtonCount = 5

// Modifiers are the modifier keys held, derived from the left and right
// variants of each key.
type Modifiers struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Super bool
}

func modifiersFrom(keys *[KeyCount]bool) Modifiers {
	return Modifiers{
		Ctrl:  keys[KeyLeftControl] || keys[KeyRightControl],
		Shift: keys[KeyLeftShift] || keys[KeyRightShift],
		Alt:   keys[KeyLeftAlt] || keys[KeyRightAlt],
		Super: keys[KeyLeftSuper] || keys[KeyRightSuper],
	}
}
