// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Client commands that talk to a running photopath server over HTTP.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/photopath/services/linker/datatypes"
)

var linkCmd = &cobra.Command{
	Use:   "link [from-qid:name] [to-qid:name]",
	Short: "Request a connection chain between two people",
	Long: `Asks the server for a verified chain, e.g.:

  photopath link "Q37079:Tom Cruise" "Q9570:Shah Rukh Khan"`,
	Args: cobra.ExactArgs(2),
	Run:  runLinkCommand,
}

var searchCmd = &cobra.Command{
	Use:   "search [prefix]",
	Short: "Autocomplete people by name prefix",
	Args:  cobra.ExactArgs(1),
	Run:   runSearchCommand,
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Pick a random pair of endpoints",
	Run:   runRandomCommand,
}

// httpClient is shared by all client commands. Chain assembly fans out
// to several upstreams, so the budget is generous.
var httpClient = &http.Client{Timeout: 120 * time.Second}

// parsePersonArg splits "Q37079:Tom Cruise" into a Person.
func parsePersonArg(arg string) (datatypes.Person, error) {
	for i, r := range arg {
		if r == ':' {
			if i == 0 || i == len(arg)-1 {
				break
			}
			return datatypes.Person{QID: arg[:i], Name: arg[i+1:]}, nil
		}
	}
	return datatypes.Person{}, fmt.Errorf("expected qid:name, got %q", arg)
}

// getJSON fetches path from the server and pretty-prints the response.
func getJSON(path string) {
	resp, err := httpClient.Get(serverURL + path)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	printResponse(resp)
}

// printResponse pretty-prints a JSON response body to stdout.
func printResponse(resp *http.Response) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Server returned %s: %s", resp.Status, string(body))
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}

func runLinkCommand(cmd *cobra.Command, args []string) {
	from, err := parsePersonArg(args[0])
	if err != nil {
		log.Fatalf("Bad 'from' argument: %v", err)
	}
	to, err := parsePersonArg(args[1])
	if err != nil {
		log.Fatalf("Bad 'to' argument: %v", err)
	}

	payload, err := json.Marshal(datatypes.LinkRequest{From: from, To: to})
	if err != nil {
		log.Fatalf("Failed to build request: %v", err)
	}

	resp, err := httpClient.Post(serverURL+"/v1/link", "application/json",
		bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	printResponse(resp)
}

func runSearchCommand(cmd *cobra.Command, args []string) {
	getJSON("/v1/people/search?q=" + url.QueryEscape(args[0]))
}

func runRandomCommand(cmd *cobra.Command, args []string) {
	getJSON("/v1/people/random")
}
