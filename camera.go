package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"starfield/scene"
)

// keyboard tracks which keys are held, fed from the window's key callback
// and read once per frame.
type keyboard struct {
	keys map[glfw.Key]bool
}

func newKeyboard() *keyboard {
	return &keyboard{keys: map[glfw.Key]bool{}}
}

func (k *keyboard) handle(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
		return
	}
	if action == glfw.Press || action == glfw.Repeat {
		k.keys[key] = true
	}
	if action == glfw.Release {
		delete(k.keys, key)
	}
}

// Controls maps the held keys to camera steering.
func (k *keyboard) Controls() scene.Controls {
	return scene.Controls{
		PitchUp:   k.keys[glfw.KeyW],
		PitchDown: k.keys[glfw.KeyS],
		YawRight:  k.keys[glfw.KeyD],
		YawLeft:   k.keys[glfw.KeyA],
	}
}

// window adapts a glfw window to the loop's host.
type window struct {
	*glfw.Window
}

func (window) PollEvents() { glfw.PollEvents() }
