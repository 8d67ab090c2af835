package catalog

// Default catalog installed when the store holds no data yet. Mirrors the
// demo content shipped with the studio site.

func defaultArtists() []Artist {
	return []Artist{
		{
			ID:      "A001",
			Name:    "Sarah Miles",
			Genre:   "Afro-Pop",
			Bio:     "Soulful vocalist known for her powerful performances and emotional depth.",
			Image:   "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=300&h=300&fit=crop&crop=face",
			Tracks:  1,
			Streams: 15200,
			Since:   "2024",
			Status:  ArtistActive,
		},
		{
			ID:      "A002",
			Name:    "DJ Kato",
			Genre:   "Electronic",
			Bio:     "Electronic music producer and DJ.",
			Image:   "https://images.unsplash.com/photo-1470225620780-dba8ba36b745?w=300&h=300&fit=crop",
			Tracks:  1,
			Streams: 45800,
			Since:   "2024",
			Status:  ArtistActive,
		},
	}
}

func defaultTracks() []Track {
	return []Track{
		{
			ID:          "T001",
			Title:       "Sunset Dreams",
			Artist:      "A001",
			ArtistName:  "Sarah Miles",
			Genre:       "Afro-Pop",
			Duration:    "3:45",
			Year:        "2024",
			Streams:     15200,
			Likes:       2400,
			Downloads:   1800,
			Artwork:     "https://images.unsplash.com/photo-1493225457124-a3eb161ffa5f?w=400&h=400&fit=crop",
			Description: "A soulful afro-pop track about chasing dreams",
			ReleaseDate: "2024-12-15",
			Status:      TrackPublished,
			AudioURL:    "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3",
		},
		{
			ID:          "T002",
			Title:       "City Lights",
			Artist:      "A002",
			ArtistName:  "DJ Kato",
			Genre:       "Electronic",
			Duration:    "4:20",
			Year:        "2024",
			Streams:     45800,
			Likes:       8700,
			Downloads:   6200,
			Artwork:     "https://images.unsplash.com/photo-1511379938547-c1f69419868d?w=400&h=400&fit=crop",
			Description: "Energetic electronic track inspired by city nightlife",
			ReleaseDate: "2024-11-28",
			Status:      TrackPublished,
			AudioURL:    "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-2.mp3",
		},
	}
}
