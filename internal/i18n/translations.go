package i18n

// Entry holds one key's localized strings.
type Entry struct {
	EN string
	FR string
}

var translations = map[string]Entry{
	// Navigation
	"explore": {"Explore", "Explorer"},
	"saved":   {"Saved", "Favoris"},
	"add":     {"Add", "Ajouter"},

	// Splash
	"tagline":      {"Your breastfeeding safe-space", "Votre espace d'allaitement"},
	"initializing": {"Initializing...", "Initialisation..."},
	"skip":         {"Skip", "Passer"},

	// Explore
	"searchPlaceholder": {"Find a nursing-friendly spot...", "Trouver un espace allaitement..."},
	"viewDetails":       {"View details", "Voir les détails"},
	"reviews":           {"reviews", "avis"},
	"away":              {"away", "de distance"},
	"openUntil":         {"Open until", "Ouvert jusqu'à"},

	// Location types
	"cafe":       {"Café", "Café"},
	"restaurant": {"Restaurant", "Restaurant"},
	"park":       {"Park", "Parc"},
	"library":    {"Library", "Bibliothèque"},
	"coworking":  {"Co-working", "Co-working"},
	"other":      {"Other", "Autre"},

	// Privacy levels
	"private":     {"Private", "Privé"},
	"semiPrivate": {"Semi-private", "Semi-privé"},
	"public":      {"Public", "Public"},

	// Amenities
	"privateRoom":   {"Private Room", "Salle privée"},
	"changingTable": {"Changing Table", "Table à langer"},
	"highChairs":    {"High Chairs", "Chaises hautes"},
	"quietArea":     {"Quiet Area", "Espace calme"},
	"wifi":          {"WiFi", "WiFi"},

	// Location detail
	"getDirections": {"Get Directions", "Itinéraire"},
	"addReview":     {"Add Your Review", "Ajouter un avis"},
	"userPhotos":    {"User Photos", "Photos des utilisateurs"},
	"seeAll":        {"See All", "Voir tout"},
	"helpful":       {"Helpful", "Utile"},
	"wouldReturn":   {"Would Return", "Retournerait"},

	// Ratings
	"staffFriendliness": {"Staff Friendliness", "Amabilité du personnel"},
	"comfortSeating":    {"Comfort & Seating", "Confort et sièges"},
	"privacyLevel":      {"Privacy Level", "Niveau de confidentialité"},
	"safetyRating":      {"Safety Rating", "Note de sécurité"},
	"localMomsReviewed": {"local moms reviewed", "mamans locales ont évalué"},

	// Add location
	"addLocation":        {"Add Location", "Ajouter un lieu"},
	"findAddress":        {"Find Address", "Trouver l'adresse"},
	"searchAddress":      {"Search for an address", "Rechercher une adresse"},
	"useCurrentLocation": {"Use current location", "Utiliser la position actuelle"},
	"locationName":       {"Location Name", "Nom du lieu"},
	"type":               {"Type", "Type"},
	"selectCategory":     {"Select category", "Sélectionner une catégorie"},
	"privacyLevelLabel":  {"Privacy Level", "Niveau de confidentialité"},
	"requiresPurchase":   {"Requires purchase?", "Achat requis?"},
	"purchaseHint":       {"e.g., Coffee or entrance fee", "ex. Café ou entrée payante"},
	"addNote":            {"Add a note", "Ajouter une note"},
	"shareExtraTips":     {"Share any extra tips or details...", "Partagez des conseils ou détails..."},
	"photos":             {"Photos", "Photos"},
	"tapToUpload":        {"Tap to upload photos", "Appuyez pour télécharger des photos"},
	"maxFileSize":        {"Max 5MB per file", "Max 5 Mo par fichier"},
	"submitLocation":     {"Submit Location", "Soumettre le lieu"},
	"cancel":             {"Cancel", "Annuler"},

	// Filters
	"filterLocations":   {"Filter Locations", "Filtrer les lieux"},
	"clearAll":          {"Clear all", "Tout effacer"},
	"privacy":           {"Privacy", "Confidentialité"},
	"freeOnly":          {"Free only", "Gratuit uniquement"},
	"showFreeLocations": {"Show locations with no entry fee", "Afficher les lieux sans frais d'entrée"},
	"verified":          {"Verified", "Vérifié"},
	"verifiedByComm":    {"Locations verified by our community", "Lieux vérifiés par notre communauté"},
	"distance":          {"Distance", "Distance"},
	"applyFilters":      {"Apply Filters", "Appliquer les filtres"},
	"reset":             {"Reset", "Réinitialiser"},

	// Add review
	"addReviewTitle":  {"Add Review", "Ajouter un avis"},
	"drafts":          {"Drafts", "Brouillons"},
	"staffAttitude":   {"Staff Attitude", "Attitude du personnel"},
	"comfort":         {"Comfort", "Confort"},
	"safety":          {"Safety", "Sécurité"},
	"wouldYouReturn":  {"Would you return?", "Retourneriez-vous?"},
	"yes":             {"Yes", "Oui"},
	"no":              {"No", "Non"},
	"anyIssues":       {"Any issues?", "Des problèmes?"},
	"askedToLeave":    {"Asked to leave prematurely", "On m'a demandé de partir trop tôt"},
	"feltIgnored":     {"Felt ignored by staff", "Ignoré par le personnel"},
	"hygieneConcerns": {"Hygiene concerns", "Problèmes d'hygiène"},
	"shareExperience": {"Share your experience", "Partagez votre expérience"},
	"howWasVisit":     {"How was your visit?", "Comment était votre visite?"},
	"postAnonymously": {"Post review anonymously", "Publier anonymement"},
	"submitReview":    {"Submit Review", "Soumettre l'avis"},

	"notifications": {"Notifications", "Notifications"},

	// Errors
	"errorLoadingLocations": {"Error loading locations", "Erreur de chargement des lieux"},
	"locationNotFound":      {"Location not found", "Lieu non trouvé"},
	"errorAddingLocation":   {"Failed to add location", "Échec de l'ajout du lieu"},
	"errorAddingReview":     {"Failed to add review", "Échec de l'ajout de l'avis"},

	// Success
	"locationAdded":   {"Location added successfully!", "Lieu ajouté avec succès!"},
	"reviewAdded":     {"Review added successfully!", "Avis ajouté avec succès!"},
	"locationSaved":   {"Location saved!", "Lieu sauvegardé!"},
	"locationRemoved": {"Location removed from saved", "Lieu retiré des favoris"},
}
