package models

// Modite is a roster member as served by the roster endpoint.
// Records are immutable once fetched.
type Modite struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	RealName string  `json:"real_name"`
	TZ       string  `json:"tz"`
	Color    string  `json:"color,omitempty"`
	Tacos    int     `json:"tacos"`
	Profile  Profile `json:"profile"`
}

// Profile holds the member's profile sub-record.
type Profile struct {
	Title       string        `json:"title"`
	DisplayName string        `json:"display_name"`
	RealName    string        `json:"real_name,omitempty"`
	FirstName   string        `json:"first_name,omitempty"`
	LastName    string        `json:"last_name"`
	Phone       string        `json:"phone,omitempty"`
	Email       string        `json:"email,omitempty"`
	Image72     string        `json:"image_72"`
	Image192    string        `json:"image_192"`
	Image512    string        `json:"image_512"`
	Fields      ProfileFields `json:"fields"`
}

// ProfileFields are the workspace custom profile fields.
type ProfileFields struct {
	Location     string        `json:"Location,omitempty"`
	Title        string        `json:"Title,omitempty"`
	GitHubUser   string        `json:"GitHub User,omitempty"`
	SkypeUser    string        `json:"Skype User,omitempty"`
	LocationData *LocationData `json:"locationData,omitempty"`
}

// LocationData is the geocoded location of a member.
type LocationData struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// LastName returns the profile last name used for roster ordering.
func (m *Modite) LastName() string {
	return m.Profile.LastName
}

// Location returns the geocoded location, or nil when the member has none.
func (m *Modite) Location() *LocationData {
	return m.Profile.Fields.LocationData
}

// HasLocation reports whether the member carries geocoded location data.
func (m *Modite) HasLocation() bool {
	return m.Location() != nil
}

// GitHubURL returns the GitHub profile link, or "" when no handle is set.
func (m *Modite) GitHubURL() string {
	if m.Profile.Fields.GitHubUser == "" {
		return ""
	}
	return "https://github.com/" + m.Profile.Fields.GitHubUser
}

// SkypeURL returns the Skype chat link, or "" when no handle is set.
func (m *Modite) SkypeURL() string {
	if m.Profile.Fields.SkypeUser == "" {
		return ""
	}
	return "skype:" + m.Profile.Fields.SkypeUser + "?chat"
}
