package geocoding

import "strings"

type knownCity struct {
	key     string
	lat     float64
	lng     float64
	country string
}

// knownCities resolves popular destinations without a provider round trip.
// Entries are matched as lowercase substrings of the query; the longest
// matching key wins so "venice" is not taken for "nice".
var knownCities = []knownCity{
	// France
	{"paris", 48.8566, 2.3522, "France"},
	{"nice", 43.7102, 7.2620, "France"},
	{"lyon", 45.7640, 4.8357, "France"},
	{"marseille", 43.2965, 5.3698, "France"},

	// Spain
	{"barcelona", 41.3851, 2.1734, "Spain"},
	{"madrid", 40.4168, -3.7038, "Spain"},
	{"seville", 37.3891, -5.9845, "Spain"},
	{"valencia", 39.4699, -0.3763, "Spain"},

	// United States
	{"new york", 40.7128, -74.0060, "United States"},
	{"los angeles", 34.0522, -118.2437, "United States"},
	{"miami", 25.7617, -80.1918, "United States"},
	{"san francisco", 37.7749, -122.4194, "United States"},
	{"chicago", 41.8781, -87.6298, "United States"},
	{"las vegas", 36.1699, -115.1398, "United States"},
	{"orlando", 28.5383, -81.3792, "United States"},
	{"washington", 38.9072, -77.0369, "United States"},
	{"boston", 42.3601, -71.0589, "United States"},
	{"seattle", 47.6062, -122.3321, "United States"},

	// Italy
	{"rome", 41.9028, 12.4964, "Italy"},
	{"venice", 45.4408, 12.3155, "Italy"},
	{"florence", 43.7696, 11.2558, "Italy"},
	{"milan", 45.4642, 9.1900, "Italy"},
	{"naples", 40.8518, 14.2681, "Italy"},

	// Turkey
	{"istanbul", 41.0082, 28.9784, "Turkey"},
	{"antalya", 36.8969, 30.7133, "Turkey"},
	{"cappadocia", 38.6580, 34.6850, "Turkey"},

	// Mexico
	{"mexico city", 19.4326, -99.1332, "Mexico"},
	{"cancun", 21.1619, -86.8515, "Mexico"},
	{"playa del carmen", 20.6294, -87.0739, "Mexico"},
	{"guadalajara", 20.6597, -103.3496, "Mexico"},

	// United Kingdom
	{"london", 51.5074, -0.1278, "United Kingdom"},
	{"edinburgh", 55.9533, -3.1883, "United Kingdom"},
	{"manchester", 53.4808, -2.2426, "United Kingdom"},
	{"birmingham", 52.4862, -1.8904, "United Kingdom"},
	{"liverpool", 53.4084, -2.9916, "United Kingdom"},

	// China
	{"beijing", 39.9042, 116.4074, "China"},
	{"shanghai", 31.2304, 121.4737, "China"},
	{"hong kong", 22.3193, 114.1694, "China"},
	{"chengdu", 30.5728, 104.0668, "China"},
	{"xian", 34.3416, 108.9398, "China"},

	// Germany
	{"berlin", 52.5200, 13.4050, "Germany"},
	{"munich", 48.1351, 11.5820, "Germany"},
	{"hamburg", 53.5511, 9.9937, "Germany"},
	{"frankfurt", 50.1109, 8.6821, "Germany"},
	{"cologne", 50.9375, 6.9603, "Germany"},

	// Greece
	{"athens", 37.9838, 23.7275, "Greece"},
	{"santorini", 36.3932, 25.4615, "Greece"},
	{"mykonos", 37.4467, 25.3244, "Greece"},
	{"thessaloniki", 40.6401, 22.9444, "Greece"},

	{"tokyo", 35.6762, 139.6503, "Japan"},
	{"bali", -8.4095, 115.1889, "Indonesia"},
	{"amsterdam", 52.3676, 4.9041, "Netherlands"},
	{"sydney", -33.8688, 151.2093, "Australia"},
	{"dubai", 25.2048, 55.2708, "UAE"},
	{"singapore", 1.3521, 103.8198, "Singapore"},
	{"vienna", 48.2082, 16.3738, "Austria"},
	{"prague", 50.0755, 14.4378, "Czech Republic"},
	{"bangkok", 13.7563, 100.5018, "Thailand"},
	{"seoul", 37.5665, 126.9780, "South Korea"},
	{"cairo", 30.0444, 31.2357, "Egypt"},
	{"cape town", -33.9249, 18.4241, "South Africa"},
	{"rio de janeiro", -22.9068, -43.1729, "Brazil"},
	{"buenos aires", -34.6037, -58.3816, "Argentina"},
	{"lisbon", 38.7223, -9.1393, "Portugal"},
	{"moscow", 55.7558, 37.6173, "Russia"},
}

// LookupKnown resolves name against the built-in city table.
func LookupKnown(name string) (*Result, bool) {
	lower := strings.ToLower(name)

	var best *knownCity
	for i := range knownCities {
		city := &knownCities[i]
		if !strings.Contains(lower, city.key) {
			continue
		}
		if best == nil || len(city.key) > len(best.key) {
			best = city
		}
	}
	if best == nil {
		return nil, false
	}

	return &Result{
		Lat:     best.lat,
		Lng:     best.lng,
		Country: best.country,
		Source:  SourceKnown,
	}, true
}
