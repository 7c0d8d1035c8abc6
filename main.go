package main

import "course-registration-go/cmd"

func main() {
	cmd.Execute()
}
