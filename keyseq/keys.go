// Package keyseq synthesizes "hold modifier + tap key" combinations without
// corrupting the OS's idea of which modifier keys are down. The trigger for a
// combo-send is often itself a modifier chord (ctrl+alt+1 asking us to send
// ctrl+c), so every combo is built as: release every modifier variant, press
// Ctrl, tap the target, release Ctrl, then restore whatever the user is
// physically holding.
package keyseq

// Key is a Windows virtual-key code.
type Key uint16

const (
	KeyShift   Key = 0x10 // VK_SHIFT
	KeyControl Key = 0x11 // VK_CONTROL
	KeyAlt     Key = 0x12 // VK_MENU

	KeyC Key = 0x43
	KeyV Key = 0x56

	KeyLeftShift    Key = 0xA0
	KeyRightShift   Key = 0xA1
	KeyLeftControl  Key = 0xA2
	KeyRightControl Key = 0xA3
	KeyLeftAlt      Key = 0xA4
	KeyRightAlt     Key = 0xA5
)

// modifierVariants groups each modifier's generic code with its side-specific
// codes. Windows tracks the generic and left/right bits independently, so a
// full release must emit all three.
var modifierVariants = [...]struct {
	Generic, Left, Right Key
}{
	{KeyControl, KeyLeftControl, KeyRightControl},
	{KeyShift, KeyLeftShift, KeyRightShift},
	{KeyAlt, KeyLeftAlt, KeyRightAlt},
}

// KeyEvent is one synthetic key transition: a virtual key plus direction.
type KeyEvent struct {
	Key Key
	Up  bool
}
