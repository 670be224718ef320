package memory

import "github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/domain"

// DefaultQuestionBank is the built-in catalogue used by the seed command and
// the no-database serve mode.
func DefaultQuestionBank() []domain.Question {
	return []domain.Question{
		{ID: "gk-1", Text: "What is the capital of France?", Options: []string{"Paris", "London", "Berlin", "Rome"}, Correct: "Paris", Category: "General Knowledge", Difficulty: domain.DifficultyEasy},
		{ID: "gk-2", Text: "Which country is known as the Land of the Rising Sun?", Options: []string{"China", "Japan", "Thailand", "Korea"}, Correct: "Japan", Category: "General Knowledge", Difficulty: domain.DifficultyEasy},
		{ID: "gk-3", Text: "What is the largest mammal on Earth?", Options: []string{"Elephant", "Blue Whale", "Giraffe", "Shark"}, Correct: "Blue Whale", Category: "General Knowledge", Difficulty: domain.DifficultyEasy},
		{ID: "gk-4", Text: "How many continents are there on Earth?", Options: []string{"5", "6", "7", "8"}, Correct: "7", Category: "General Knowledge", Difficulty: domain.DifficultyEasy},
		{ID: "gk-5", Text: "Which country has the most population?", Options: []string{"USA", "India", "China", "Russia"}, Correct: "China", Category: "General Knowledge", Difficulty: domain.DifficultyMedium},
		{ID: "gk-6", Text: "Which language is the most spoken worldwide?", Options: []string{"English", "Mandarin Chinese", "Spanish", "Hindi"}, Correct: "Mandarin Chinese", Category: "General Knowledge", Difficulty: domain.DifficultyMedium},
		{ID: "gk-7", Text: "What year did World War II end?", Options: []string{"1945", "1939", "1918", "1950"}, Correct: "1945", Category: "General Knowledge", Difficulty: domain.DifficultyMedium},
		{ID: "gk-8", Text: "Which blood type is known as the universal donor?", Options: []string{"O+", "O-", "AB+", "AB-"}, Correct: "O-", Category: "General Knowledge", Difficulty: domain.DifficultyHard},

		{ID: "sci-1", Text: "Which planet is known as the Red Planet?", Options: []string{"Earth", "Mars", "Venus", "Jupiter"}, Correct: "Mars", Category: "Science", Difficulty: domain.DifficultyEasy},
		{ID: "sci-2", Text: "What is H2O commonly known as?", Options: []string{"Water", "Oxygen", "Hydrogen", "Salt"}, Correct: "Water", Category: "Science", Difficulty: domain.DifficultyEasy},
		{ID: "sci-3", Text: "What gas do plants absorb from the atmosphere?", Options: []string{"Oxygen", "Carbon Dioxide", "Nitrogen", "Hydrogen"}, Correct: "Carbon Dioxide", Category: "Science", Difficulty: domain.DifficultyEasy},
		{ID: "sci-4", Text: "What is the boiling point of water?", Options: []string{"90°C", "100°C", "80°C", "120°C"}, Correct: "100°C", Category: "Science", Difficulty: domain.DifficultyEasy},
		{ID: "sci-5", Text: "Which element has the chemical symbol 'O'?", Options: []string{"Oxygen", "Osmium", "Ozone", "Olivine"}, Correct: "Oxygen", Category: "Science", Difficulty: domain.DifficultyEasy},
		{ID: "sci-6", Text: "Which planet is closest to the Sun?", Options: []string{"Mercury", "Venus", "Earth", "Mars"}, Correct: "Mercury", Category: "Science", Difficulty: domain.DifficultyMedium},
		{ID: "sci-7", Text: "What is the chemical symbol for gold?", Options: []string{"Au", "Ag", "Gd", "Go"}, Correct: "Au", Category: "Science", Difficulty: domain.DifficultyMedium},
		{ID: "sci-8", Text: "Which metal is liquid at room temperature?", Options: []string{"Mercury", "Iron", "Copper", "Aluminum"}, Correct: "Mercury", Category: "Science", Difficulty: domain.DifficultyMedium},
		{ID: "sci-9", Text: "What part of the plant conducts photosynthesis?", Options: []string{"Root", "Stem", "Leaf", "Flower"}, Correct: "Leaf", Category: "Science", Difficulty: domain.DifficultyMedium},
		{ID: "sci-10", Text: "How many bones are in the adult human body?", Options: []string{"200", "206", "208", "210"}, Correct: "206", Category: "Science", Difficulty: domain.DifficultyHard},

		{ID: "his-1", Text: "Who was the first man to step on the moon?", Options: []string{"Neil Armstrong", "Buzz Aldrin", "Yuri Gagarin", "Michael Collins"}, Correct: "Neil Armstrong", Category: "History", Difficulty: domain.DifficultyEasy},
		{ID: "his-2", Text: "Which country gifted the Statue of Liberty to the USA?", Options: []string{"France", "Germany", "Canada", "Italy"}, Correct: "France", Category: "History", Difficulty: domain.DifficultyEasy},
		{ID: "his-3", Text: "Who was the first President of the United States?", Options: []string{"George Washington", "Thomas Jefferson", "Abraham Lincoln", "John Adams"}, Correct: "George Washington", Category: "History", Difficulty: domain.DifficultyEasy},
		{ID: "his-4", Text: "What year did World War II end?", Options: []string{"1945", "1939", "1918", "1950"}, Correct: "1945", Category: "History", Difficulty: domain.DifficultyMedium},

		{ID: "lit-1", Text: "Who wrote 'Romeo and Juliet'?", Options: []string{"William Shakespeare", "Charles Dickens", "J.K. Rowling", "Mark Twain"}, Correct: "William Shakespeare", Category: "Literature", Difficulty: domain.DifficultyEasy},

		{ID: "art-1", Text: "Who painted the Mona Lisa?", Options: []string{"Van Gogh", "Picasso", "Da Vinci", "Monet"}, Correct: "Da Vinci", Category: "Art", Difficulty: domain.DifficultyEasy},
	}
}
