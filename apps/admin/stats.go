package main

import "fmt"

func (cli *commandLine) stats(adminEmail string) error {
	client, err := cli.login(adminEmail)
	if err != nil {
		return err
	}

	stats, err := client.Users.Stats(ctxBg())
	if err != nil {
		return err
	}
	fmt.Printf("Total users:  %d\n", stats.Total)
	fmt.Printf("Students:     %d\n", stats.Students)
	fmt.Printf("Instructors:  %d\n", stats.Instructors)
	fmt.Printf("Admins:       %d\n", stats.Admins)
	fmt.Printf("Active today: %d\n", stats.ActiveToday)
	return nil
}
