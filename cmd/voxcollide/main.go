// Command voxcollide generates primitive collision geometry from triangle
// meshes, either directly from an STL file or by evaluating a collider
// script.
package main

func main() {
	Execute()
}
